package server

import (
	"context"
	b64 "encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"aashub/internal/auth"
	"aashub/internal/database/repositories"
	"aashub/internal/system"
)

// UserService registers and logs in users.
type UserService interface {
	RegisterUser(ctx context.Context, username, email, password string) error
	LoginUser(ctx context.Context, identifier, password string) (string, error)
}

// VerificationService confirms email addresses.
type VerificationService interface {
	Verify(ctx context.Context, email, code string) error
}

// APIUser is the registration payload.
type APIUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type accountHandler struct {
	users    UserService
	verifier VerificationService
	tokenTTL time.Duration
}

func unavailable(c *gin.Context) {
	c.String(http.StatusServiceUnavailable, "Accounts are unavailable")
}

// register: POST /api/v1/users/register, JSON body APIUser.
// 201 on success, 400 on a bad body, missing field or taken name/email.
//
//	@Summary		Register a new user
//	@Tags			users
//	@Accept			json
//	@Produce		plain
//	@Param			user	body		APIUser	true	"User to register"
//	@Success		201		{string}	string	"Successfully registered the user"
//	@Failure		400		{string}	string	"Missing field or email or username already exists"
//	@Failure		500		{string}	string	"Internal server error"
//	@Failure		503		{string}	string	"Accounts are unavailable"
//	@Router			/users/register [post]
func (h *accountHandler) register(c *gin.Context) {
	if h.users == nil {
		unavailable(c)
		return
	}
	var user APIUser
	if err := c.ShouldBindJSON(&user); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(user.Username) == "" || strings.TrimSpace(user.Email) == "" || user.Password == "" {
		c.String(http.StatusBadRequest, "Missing required field(s)")
		return
	}
	err := h.users.RegisterUser(c.Request.Context(), strings.TrimSpace(user.Username), strings.TrimSpace(user.Email), user.Password)
	switch {
	case err == nil:
		c.String(http.StatusCreated, "Successfully registered the user")
	case errors.Is(err, repositories.ErrEmailUsernameExists):
		c.String(http.StatusBadRequest, "Email or username already exists")
	default:
		system.Logger.Error("register failed", "err", err)
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}

// login: POST /api/v1/users/login, form fields identifier (username or
// email) and password. 204 with an HttpOnly token cookie on success.
//
//	@Summary		User login and set cookie
//	@Tags			users
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			identifier	formData	string	true	"Username or Email"
//	@Param			password	formData	string	true	"Password"
//	@Success		204
//	@Failure		400,403,404,500,503
//	@Router			/users/login [post]
func (h *accountHandler) login(c *gin.Context) {
	if h.users == nil {
		unavailable(c)
		return
	}
	identifier := strings.TrimSpace(c.PostForm("identifier"))
	password := c.PostForm("password")
	if identifier == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field(s)"})
		return
	}
	token, err := h.users.LoginUser(c.Request.Context(), identifier, password)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case errors.Is(err, repositories.ErrUserNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "User not verified"})
		return
	default:
		system.Logger.Error("login failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	ttl := h.tokenTTL
	if ttl <= 0 {
		ttl = auth.DefaultTTL
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   c.Request.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	c.Status(http.StatusNoContent)
}

// verify: GET /api/v1/verify?email=&code=, both base64 raw URL encoded.
//
//	@Summary		Verify email
//	@Tags			verification
//	@Produce		plain
//	@Param			email	query		string	true	"Email (base64 raw URL)"
//	@Param			code	query		string	true	"Verification code (base64 raw URL)"
//	@Success		200		{string}	string	"User verified successfully"
//	@Failure		400		{string}	string	"Invalid email or code"
//	@Failure		500		{string}	string	"Verification failed"
//	@Router			/verify [get]
func (h *accountHandler) verify(c *gin.Context) {
	if h.verifier == nil {
		unavailable(c)
		return
	}
	email, mailErr := b64.RawURLEncoding.DecodeString(c.Query("email"))
	code, codeErr := b64.RawURLEncoding.DecodeString(c.Query("code"))
	if mailErr != nil || codeErr != nil || len(email) == 0 || len(code) == 0 {
		c.String(http.StatusBadRequest, "Invalid email or code")
		return
	}
	err := h.verifier.Verify(c.Request.Context(), string(email), string(code))
	switch {
	case err == nil:
		c.String(http.StatusOK, "User verified successfully")
	case errors.Is(err, repositories.ErrInvalidCode):
		c.String(http.StatusBadRequest, err.Error())
	default:
		system.Logger.Error("verification failed", "err", err)
		c.String(http.StatusInternalServerError, "Verification failed")
	}
}
