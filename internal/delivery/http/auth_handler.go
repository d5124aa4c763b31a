package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"brokersim/internal/delivery/http/dto"
	"brokersim/internal/middleware"
	"brokersim/internal/service"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
	}
}

// setTokenCookie sets the JWT as an HTTP-only cookie
func setTokenCookie(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	}
	c.SetCookie(cookie)
}

// Register handles user registration and logs the new user in
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.accounts.Register(ctx, req.Username, req.Password, req.Confirmation)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token", err)
	}
	setTokenCookie(c, token)

	return CreatedResponse(c, dto.LoginResponse{
		Token: token,
		User: &dto.UserOutput{
			ID:       user.ID.String(),
			Username: user.Username,
			Cash:     user.Cash.StringFixed(2),
		},
	})
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.accounts.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token", err)
	}
	setTokenCookie(c, token)

	return SuccessResponse(c, dto.LoginResponse{
		Token: token,
		User: &dto.UserOutput{
			ID:       user.ID.String(),
			Username: user.Username,
			Cash:     user.Cash.StringFixed(2),
		},
	})
}

// Logout handles user logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie := &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1, // Delete cookie
	}
	c.SetCookie(cookie)

	return SuccessResponse(c, map[string]string{"message": "Logged out"})
}

// ChangePassword replaces the authenticated user's password
// POST /api/auth/password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.accounts.ChangePassword(ctx, userID, req.Old, req.New, req.Confirmation); err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, map[string]string{"message": "Password updated"})
}
