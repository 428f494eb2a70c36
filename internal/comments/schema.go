package comments

import "github.com/google/uuid"

// FieldRule is one declarative validation rule. Rules are data, not
// functions, so every field failure comes out in the same
// field -> messages shape.
type FieldRule struct {
	Field    string
	Required bool
	MinLen   int
	MaxLen   int
	UUID     bool
	Message  string
}

// Schema is an ordered list of field rules.
type Schema []FieldRule

// commentSchema validates comment create/update bodies. Poll and comment
// IDs arrive via the URL path and are parsed there.
var commentSchema = Schema{
	{Field: "content", Required: true, MinLen: 1, MaxLen: 500,
		Message: "comment must be between 1 and 500 characters"},
	{Field: "parent_comment_id", UUID: true,
		Message: "invalid parent comment ID"},
}

// Evaluate applies every rule to values and collects failures per field.
// An empty result means the values are valid.
func (s Schema) Evaluate(values map[string]string) map[string][]string {
	errs := make(map[string][]string)
	for _, rule := range s {
		v, ok := values[rule.Field]
		if !ok || v == "" {
			if rule.Required {
				errs[rule.Field] = append(errs[rule.Field], rule.Message)
			}
			continue
		}
		if rule.UUID {
			if _, err := uuid.Parse(v); err != nil {
				errs[rule.Field] = append(errs[rule.Field], rule.Message)
			}
			continue
		}
		if len(v) < rule.MinLen || (rule.MaxLen > 0 && len(v) > rule.MaxLen) {
			errs[rule.Field] = append(errs[rule.Field], rule.Message)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
