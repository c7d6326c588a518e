package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	authservice "github.com/SocialShift/Knowledge-Backend/internal/service/auth"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, email, password, confirm string) (*models.User, *models.TokenPair, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*authservice.LoginResult, error)
	RefreshTokens(ctx context.Context, token string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	ChangeEmail(ctx context.Context, userID uuid.UUID, email string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next, confirm string) error
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthHandler struct {
	log     logger.Log
	service AuthService
}

func NewAuthHandler(l logger.Log, s AuthService) *AuthHandler {
	return &AuthHandler{
		log:     l,
		service: s,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func tokens(pair *models.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken.Raw,
		RefreshToken: pair.RefreshToken.Raw,
		TokenType:    "bearer",
	}
}

type registerRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type registeredUser struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	IsVerified bool      `json:"is_verified"`
}

type registerResponse struct {
	Detail string         `json:"detail"`
	User   registeredUser `json:"user"`
	tokenResponse
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	user, pair, err := h.service.Register(c.Request.Context(), input.Email, input.Password, input.ConfirmPassword)
	if err != nil {
		httputil.Fail(c, h.log, "error handling register user", err)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		Detail: "User created successfully. Please check your email for the verification code.",
		User: registeredUser{
			ID:         user.ID,
			Email:      user.Email,
			Username:   user.Username,
			IsVerified: user.IsVerified,
		},
		tokenResponse: tokens(pair),
	})
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input verifyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	if err := h.service.VerifyEmail(c.Request.Context(), input.Email, input.OTP); err != nil {
		httputil.Fail(c, h.log, "error verifying email", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input emailRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	if err := h.service.ResendVerification(c.Request.Context(), input.Email); err != nil {
		httputil.Fail(c, h.log, "error resending verification", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (h *AuthHandler) VerificationStatus(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	user, err := h.service.User(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving user", err)
		return
	}
	msg := "Email not verified"
	if user.IsVerified {
		msg = "Email verified"
	}
	c.JSON(http.StatusOK, gin.H{
		"is_verified": user.IsVerified,
		"email":       user.Email,
		"message":     msg,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type loginStreak struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

type loginResponse struct {
	User    loginUser   `json:"user"`
	Streak  loginStreak `json:"streak"`
	Message string      `json:"message"`
	tokenResponse
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, app_errors.ErrIncorrectPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect email or password"})
			return
		}
		httputil.Fail(c, h.log, "error handling login", err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		User:          loginUser{ID: res.User.ID, Email: res.User.Email},
		Streak:        loginStreak{Current: res.Streak.Current, Max: res.Streak.Max},
		Message:       "Login successful",
		tokenResponse: tokens(res.Tokens),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input refreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	pair, err := h.service.RefreshTokens(c.Request.Context(), input.RefreshToken)
	if err != nil {
		if httputil.Status(err) == http.StatusInternalServerError {
			h.log.ErrorErr("error refreshing tokens", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, tokens(pair))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		httputil.Fail(c, h.log, "error handling logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		httputil.Fail(c, h.log, "error deleting user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) ChangeEmail(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	var input emailRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	if err := h.service.ChangeEmail(c.Request.Context(), userID, input.Email); err != nil {
		httputil.Fail(c, h.log, "error changing email", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email updated successfully"})
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"current_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required"`
	ConfirmNewPassword string `json:"confirm_new_password" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	var input changePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	err := h.service.ChangePassword(c.Request.Context(), userID, input.CurrentPassword, input.NewPassword, input.ConfirmNewPassword)
	if err != nil {
		httputil.Fail(c, h.log, "error changing password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
