package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/codequest-dev/auth-service/internal/domain"
	"github.com/codequest-dev/auth-service/internal/otp"
	"github.com/gin-gonic/gin"
)

const sessionCookie = "token"

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	SendVerifyOTP(ctx context.Context, userID string) error
	VerifyEmail(ctx context.Context, userID, submitted string) error
	SendResetOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, submitted, newPassword string) error
}

type AuthHandler struct {
	auth          authUsecaser
	logger        *slog.Logger
	cookieMaxAge  int
	secureCookies bool
}

// NewAuthHandler builds the handler. secureCookies selects the production
// cookie matrix (Secure + SameSite=None for the cross-origin client);
// otherwise cookies are SameSite=Strict for local development.
func NewAuthHandler(auth authUsecaser, logger *slog.Logger, cookieMaxAge int, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		logger:        logger.With("component", "auth_handler"),
		cookieMaxAge:  cookieMaxAge,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, signed string) {
	if h.secureCookies {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(sessionCookie, signed, h.cookieMaxAge, "/", "", h.secureCookies, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	if h.secureCookies {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", h.secureCookies, true)
}

type registerRequest struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail(errMissingFields))
		return
	}

	_, signed, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, fail(errUserExists))
			return
		}
		h.logger.Error("register", "error", err)
		c.JSON(http.StatusInternalServerError, fail(errInternalServer))
		return
	}

	h.setSessionCookie(c, signed)
	c.JSON(http.StatusOK, ok(""))
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
// Unknown email and wrong password produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail(errMissingFields))
		return
	}

	signed, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, fail(errInvalidCredentials))
			return
		}
		h.logger.Error("login", "error", err)
		c.JSON(http.StatusInternalServerError, fail(errInternalServer))
		return
	}

	h.setSessionCookie(c, signed)
	c.JSON(http.StatusOK, ok(""))
}

// POST /api/auth/logout
// Purely removes the client's cookie; the token itself stays valid until
// its own expiry (stateless sessions, no revocation list).
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, ok("Logged Out"))
}

// POST /api/auth/send-verify-otp (session-identified user)
func (h *AuthHandler) SendVerifyOTP(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.auth.SendVerifyOTP(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyVerified):
			c.JSON(http.StatusConflict, fail(errAlreadyVerified))
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, fail(errUserNotFound))
		default:
			h.logger.Error("send verify otp", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, fail(errInternalServer))
		}
		return
	}

	c.JSON(http.StatusOK, ok("Verification OTP sent to Email"))
}

type verifyAccountRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// POST /api/auth/verify-account (session-identified user)
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	var req verifyAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail(errMissingFields))
		return
	}
	userID := c.GetString("userID")

	if err := h.auth.VerifyEmail(c.Request.Context(), userID, req.OTP); err != nil {
		h.respondOTPFailure(c, "verify account", err)
		return
	}

	c.JSON(http.StatusOK, ok("Email verified successfully"))
}

// GET /api/auth/is-auth
// The auth middleware already resolved the session; reaching here means
// the caller is logged in.
func (h *AuthHandler) IsAuth(c *gin.Context) {
	c.JSON(http.StatusOK, ok(""))
}

type sendResetOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/auth/sent-reset-otp
func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	var req sendResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail(errMissingFields))
		return
	}

	if err := h.auth.SendResetOTP(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, fail(errUserNotFound))
			return
		}
		h.logger.Error("send reset otp", "error", err)
		c.JSON(http.StatusInternalServerError, fail(errInternalServer))
		return
	}

	c.JSON(http.StatusOK, ok("OTP sent to your email"))
}

type resetPasswordRequest struct {
	Email       string `json:"email"       binding:"required,email"`
	OTP         string `json:"otp"         binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, fail(errMissingFields))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.respondOTPFailure(c, "reset password", err)
		return
	}

	c.JSON(http.StatusOK, ok("Password has been reset successfully"))
}

// respondOTPFailure maps OTP validation outcomes onto the wire. A cleared
// and a mismatched code both answer "Invalid OTP"; the distinction stays
// internal.
func (h *AuthHandler) respondOTPFailure(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, fail(errUserNotFound))
	case errors.Is(err, otp.ErrNoActiveOTP), errors.Is(err, otp.ErrMismatch):
		c.JSON(http.StatusBadRequest, fail(errInvalidOTP))
	case errors.Is(err, otp.ErrExpired):
		c.JSON(http.StatusBadRequest, fail(errExpiredOTP))
	default:
		h.logger.Error(op, "error", err)
		c.JSON(http.StatusInternalServerError, fail(errInternalServer))
	}
}
