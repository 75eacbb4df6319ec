package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tickettrack/internal/app"
	"tickettrack/internal/session"
	"tickettrack/internal/transport/http/middleware"
	"tickettrack/internal/transport/http/response"
)

// CookieSettings describes the session cookie handed to clients.
type CookieSettings struct {
	Name   string
	MaxAge int
	Secure bool
}

type UserHandler struct {
	authService *app.AuthService
	sessions    session.Store
	cookie      CookieSettings
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func NewUserHandler(authService *app.AuthService, sessions session.Store, cookie CookieSettings) *UserHandler {
	return &UserHandler{
		authService: authService,
		sessions:    sessions,
		cookie:      cookie,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	err := h.authService.Register(app.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var ve *app.ValidationError
		if errors.As(err, &ve) {
			response.ValidationFailed(c, ve.Details)
			return
		}
		log.Printf("register failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "An error occurred during registration.")
		return
	}

	response.Message(c, http.StatusCreated, "User registered successfully.")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	user, err := h.authService.Login(app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrCredentialsRequired):
			response.Error(c, http.StatusBadRequest, "Email and password are required.")
		case errors.Is(err, app.ErrInvalidCredential):
			// Same message for unknown email and wrong password.
			response.Error(c, http.StatusUnauthorized, "Invalid email or password.")
		default:
			log.Printf("login failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "An error occurred during login.")
		}
		return
	}

	sessionID, err := h.sessions.Create(c.Request.Context(), session.Data{
		UserID:   user.ID,
		UserName: user.Name,
		Email:    user.Email,
	})
	if err != nil {
		log.Printf("create session failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "An error occurred during login.")
		return
	}

	h.setSessionCookie(c, sessionID, h.cookie.MaxAge)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful.",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Logout is idempotent: it answers 200 whether or not a session existed.
func (h *UserHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.cookie.Name); err == nil && sessionID != "" {
		if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
			log.Printf("delete session failed: %v", err)
		}
	}

	h.setSessionCookie(c, "", -1)
	response.Message(c, http.StatusOK, "Logged out successfully.")
}

func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	err := h.authService.UpdateProfile(app.UpdateProfileInput{
		UserID:   userID,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		var ve *app.ValidationError
		switch {
		case errors.As(err, &ve):
			response.ValidationFailed(c, ve.Details)
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "User not found.")
		default:
			log.Printf("update profile failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "An error occurred while updating the profile.")
		}
		return
	}

	response.Message(c, http.StatusOK, "Profile updated successfully.")
}

// Session reports the identity behind the current session. The guard has
// already run; this additionally verifies the user row still exists.
func (h *UserHandler) Session(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		log.Printf("fetch session user failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "An error occurred while checking the session.")
		return
	}
	if user == nil {
		response.Error(c, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		var ve *app.ValidationError
		if errors.As(err, &ve) {
			response.ValidationFailed(c, ve.Details)
			return
		}
		log.Printf("forgot password failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "An error occurred while issuing the reset token.")
		return
	}

	// Identical response whether or not the account exists.
	response.Message(c, http.StatusOK, "If the email exists, a reset token has been issued.")
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		var ve *app.ValidationError
		switch {
		case errors.As(err, &ve):
			response.ValidationFailed(c, ve.Details)
		case errors.Is(err, app.ErrInvalidResetToken):
			response.Error(c, http.StatusBadRequest, "Invalid or expired reset token.")
		default:
			log.Printf("reset password failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "An error occurred while resetting the password.")
		}
		return
	}

	response.Message(c, http.StatusOK, "Password reset successfully.")
}

func (h *UserHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	// SameSite=None so the browser sends the cookie from a frontend served
	// on a different origin; Secure only outside local development.
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
