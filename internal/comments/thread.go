package comments

import (
	"github.com/google/uuid"

	"github.com/pulse-polls/backend/internal/models"
)

// ThreadNode is a comment plus its ordered replies.
type ThreadNode struct {
	models.Comment
	Children []*ThreadNode `json:"children"`
}

// BuildThread converts a flat, creation-time-ordered comment list into a
// rooted forest. Sibling order equals input order. A comment whose declared
// parent is not in the batch (cross-poll parent, data corruption) becomes a
// root; that fallback is defined behavior, not an error. Two O(n) passes.
func BuildThread(comments []models.Comment) []*ThreadNode {
	byID := make(map[uuid.UUID]*ThreadNode, len(comments))
	for i := range comments {
		byID[comments[i].ID] = &ThreadNode{
			Comment:  comments[i],
			Children: make([]*ThreadNode, 0),
		}
	}

	roots := make([]*ThreadNode, 0)
	for i := range comments {
		node := byID[comments[i].ID]
		if pid := comments[i].ParentCommentID; pid != nil {
			if parent, ok := byID[*pid]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
