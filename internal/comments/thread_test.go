package comments

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-polls/backend/internal/models"
)

func flatComment(id uuid.UUID, parent *uuid.UUID, content string, at time.Time) models.Comment {
	return models.Comment{
		ID:              id,
		PollID:          uuid.Nil,
		UserID:          uuid.New(),
		ParentCommentID: parent,
		Content:         content,
		CreatedAt:       at,
	}
}

func countNodes(nodes []*ThreadNode) int {
	n := 0
	for _, node := range nodes {
		n += 1 + countNodes(node.Children)
	}
	return n
}

func TestBuildThread_Nesting(t *testing.T) {
	base := time.Now()
	rootA := uuid.New()
	rootB := uuid.New()
	replyA1 := uuid.New()
	replyA1a := uuid.New()

	flat := []models.Comment{
		flatComment(rootA, nil, "first root", base),
		flatComment(replyA1, &rootA, "reply to first", base.Add(time.Minute)),
		flatComment(rootB, nil, "second root", base.Add(2*time.Minute)),
		flatComment(replyA1a, &replyA1, "nested reply", base.Add(3*time.Minute)),
	}

	roots := BuildThread(flat)

	require.Len(t, roots, 2)
	assert.Equal(t, rootA, roots[0].ID)
	assert.Equal(t, rootB, roots[1].ID)

	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, replyA1, roots[0].Children[0].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, replyA1a, roots[0].Children[0].Children[0].ID)

	assert.Empty(t, roots[1].Children)
}

func TestBuildThread_SiblingOrderFollowsInput(t *testing.T) {
	base := time.Now()
	parent := uuid.New()
	first := uuid.New()
	second := uuid.New()
	third := uuid.New()

	flat := []models.Comment{
		flatComment(parent, nil, "root", base),
		flatComment(first, &parent, "one", base.Add(time.Second)),
		flatComment(second, &parent, "two", base.Add(2*time.Second)),
		flatComment(third, &parent, "three", base.Add(3*time.Second)),
	}

	roots := BuildThread(flat)

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 3)
	assert.Equal(t, first, roots[0].Children[0].ID)
	assert.Equal(t, second, roots[0].Children[1].ID)
	assert.Equal(t, third, roots[0].Children[2].ID)
}

func TestBuildThread_OrphanBecomesRoot(t *testing.T) {
	missing := uuid.New()
	orphan := uuid.New()
	root := uuid.New()

	flat := []models.Comment{
		flatComment(root, nil, "root", time.Now()),
		flatComment(orphan, &missing, "parent not in batch", time.Now()),
	}

	roots := BuildThread(flat)

	require.Len(t, roots, 2)
	assert.Equal(t, orphan, roots[1].ID)
	assert.Empty(t, roots[1].Children)
}

func TestBuildThread_EveryCommentAppearsOnce(t *testing.T) {
	base := time.Now()
	ids := make([]uuid.UUID, 10)
	flat := make([]models.Comment, 0, len(ids))
	for i := range ids {
		ids[i] = uuid.New()
		var parent *uuid.UUID
		if i > 0 && i%3 != 0 {
			parent = &ids[i-1]
		}
		flat = append(flat, flatComment(ids[i], parent, "c", base.Add(time.Duration(i)*time.Second)))
	}

	roots := BuildThread(flat)

	assert.Equal(t, len(flat), countNodes(roots))
}

func TestBuildThread_Empty(t *testing.T) {
	assert.Empty(t, BuildThread(nil))
	assert.Empty(t, BuildThread([]models.Comment{}))
}
