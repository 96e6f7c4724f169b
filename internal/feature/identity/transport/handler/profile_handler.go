package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"accounts_backend/internal/feature/identity/domain"
	"accounts_backend/internal/feature/identity/domain/entity"
	"accounts_backend/internal/feature/identity/transport/http/dto"
	jwtmw "accounts_backend/internal/platform/jwt"
)

// ProfileUsecase resolves the authenticated caller's user record.
type ProfileUsecase interface {
	// CurrentUser returns the user record for the authenticated ID.
	CurrentUser(ctx context.Context, id uint) (*entity.User, error)
	// AdminUser returns the user record only if it has the admin flag.
	AdminUser(ctx context.Context, id uint) (*entity.User, error)
}

// ProfileHandler serves the endpoints behind the JWT middleware:
// the caller's own record and the admin view.
type ProfileHandler struct {
	profile ProfileUsecase
}

// NewProfileHandler はProfileHandlerの新しいインスタンスを生成します。
func NewProfileHandler(profile ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

// CurrentUser returns the caller's own user record as resolved by the
// authentication middleware. No business logic beyond the lookup.
func (h *ProfileHandler) CurrentUser(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Msg: "invalid token"})
		return
	}
	user, err := h.profile.CurrentUser(c.Request.Context(), id)
	if err != nil {
		slog.Warn("current-user lookup failed", "error", err, "user_id", id)
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Msg: "invalid token"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Admin returns the caller's record only for accounts with the admin flag.
// Non-admin callers receive 403.
func (h *ProfileHandler) Admin(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Msg: "invalid token"})
		return
	}
	user, err := h.profile.AdminUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			slog.Warn("admin access denied", "user_id", id)
			c.JSON(http.StatusForbidden, dto.MessageResponse{Msg: err.Error()})
			return
		}
		slog.Warn("admin lookup failed", "error", err, "user_id", id)
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Msg: "invalid token"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// callerID reads the user ID the JWT middleware stored in the context.
func callerID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(jwtmw.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
