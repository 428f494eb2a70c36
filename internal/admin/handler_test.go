package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/middleware"
	"github.com/pulse-polls/backend/internal/models"
)

// fakeUserStore drives the handler with canned store behavior.
type fakeUserStore struct {
	users      []models.UserPublic
	promoteErr error
	demoteErr  error
	demoted    []uuid.UUID
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.UserPublic, error) {
	return f.users, nil
}

func (f *fakeUserStore) Promote(ctx context.Context, id uuid.UUID) error {
	return f.promoteErr
}

func (f *fakeUserStore) Demote(ctx context.Context, id uuid.UUID) error {
	if f.demoteErr != nil {
		return f.demoteErr
	}
	f.demoted = append(f.demoted, id)
	return nil
}

func newAdminRouter(store UserStore, actorID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, zap.NewNop())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, actorID)
		c.Set(middleware.ContextUserRole, "admin")
	})
	r.GET("/admin/users", h.ListUsers)
	r.POST("/admin/users/:id/promote", h.Promote)
	r.POST("/admin/users/:id/demote", h.Demote)
	return r
}

func TestListUsers(t *testing.T) {
	store := &fakeUserStore{users: []models.UserPublic{
		{ID: uuid.New(), Email: "a@b.c", Role: models.RoleAdmin},
		{ID: uuid.New(), Email: "d@e.f", Role: models.RoleUser},
	}}
	r := newAdminRouter(store, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@b.c")
	assert.Contains(t, w.Body.String(), "d@e.f")
}

func TestPromote_OK(t *testing.T) {
	r := newAdminRouter(&fakeUserStore{}, uuid.New())
	target := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+target.String()+"/promote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestPromote_UnknownUser(t *testing.T) {
	r := newAdminRouter(&fakeUserStore{promoteErr: domain.ErrNotFound}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+uuid.New().String()+"/promote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromote_BadID(t *testing.T) {
	r := newAdminRouter(&fakeUserStore{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/not-a-uuid/promote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDemote_OK(t *testing.T) {
	store := &fakeUserStore{}
	r := newAdminRouter(store, uuid.New())
	target := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+target.String()+"/demote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.demoted, 1)
	assert.Equal(t, target, store.demoted[0])
}

func TestDemote_SelfForbidden(t *testing.T) {
	actor := uuid.New()
	store := &fakeUserStore{}
	r := newAdminRouter(store, actor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+actor.String()+"/demote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.demoted, "the store must never see a self-demotion")
}

func TestDemote_LastAdminConflict(t *testing.T) {
	r := newAdminRouter(&fakeUserStore{demoteErr: domain.ErrLastAdmin}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+uuid.New().String()+"/demote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrLastAdmin.Error())
}

func TestDemote_NotAnAdmin(t *testing.T) {
	r := newAdminRouter(&fakeUserStore{demoteErr: domain.ErrNotAdmin}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+uuid.New().String()+"/demote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
