package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulse-polls/backend/internal/domain"
	"github.com/pulse-polls/backend/internal/models"
	"github.com/pulse-polls/backend/pkg/response"
	"github.com/pulse-polls/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo    *Repository
	jwt     *JWTService
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, revoker TokenRevoker, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, revoker: revoker, logger: logger}
}

// Register handles POST /auth/register. New accounts always get the "user"
// role; admin is granted only through the admin endpoints.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if _, err := h.repo.GetByEmail(c.Request.Context(), req.Email); err == nil {
		response.Conflict(c, domain.ErrEmailTaken.Error())
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		h.logger.Error("lookup email", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.FullName)
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Me handles GET /auth/me: returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet(ContextUserID).(uuid.UUID)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("get user", zap.Error(err))
		response.Internal(c, "failed to fetch user")
		return
	}
	response.OK(c, user.ToPublic())
}

// Logout handles POST /auth/logout: revokes the presented token's JTI for
// its remaining lifetime.
func (h *Handler) Logout(c *gin.Context) {
	claimsVal, ok := c.Get(ContextClaims)
	claims, _ := claimsVal.(*Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, "missing user context")
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.revoker.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
		h.logger.Error("revoke token", zap.Error(err))
		response.Internal(c, "failed to log out")
		return
	}
	response.NoContent(c)
}
