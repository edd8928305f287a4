package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/codequest-dev/auth-service/internal/domain"
	"github.com/codequest-dev/auth-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type userUsecaser interface {
	GetProfile(ctx context.Context, userID string) (usecase.Profile, error)
}

type UserHandler struct {
	users  userUsecaser
	logger *slog.Logger
}

func NewUserHandler(users userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.With("component", "user_handler")}
}

type userDataResponse struct {
	Success  bool        `json:"success"`
	UserData profileBody `json:"userData"`
}

type profileBody struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isAccountVerified"`
}

// GET /api/user/data (session-identified user)
func (h *UserHandler) GetData(c *gin.Context) {
	userID := c.GetString("userID")

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, fail(errUserNotFound))
			return
		}
		h.logger.Error("get user data", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, fail(errInternalServer))
		return
	}

	c.JSON(http.StatusOK, userDataResponse{
		Success: true,
		UserData: profileBody{
			Name:       profile.Name,
			Email:      profile.Email,
			IsVerified: profile.IsVerified,
		},
	})
}
