package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"linguachat/internal/logger"
	"linguachat/internal/models"
	"linguachat/internal/service"
)

const (
	sessionCookieName   = "jwt"
	sessionCookieMaxAge = int(7 * 24 * time.Hour / time.Second)
)

type AuthController struct {
	auth          *service.Auth
	secureCookies bool
	logger        *logger.Logger
}

func NewAuthController(auth *service.Auth, secureCookies bool, logger *logger.Logger) *AuthController {
	return &AuthController{auth: auth, secureCookies: secureCookies, logger: logger}
}

type signupPayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthController) SignUp(c *gin.Context) {
	var p signupPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, token, err := a.auth.Signup(c.Request.Context(), p.FullName, p.Email, p.Password)
	if err != nil {
		a.renderError(c, err)
		return
	}

	a.setSessionCookie(c, token, sessionCookieMaxAge)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, token, err := a.auth.Login(c.Request.Context(), p.Email, p.Password)
	if err != nil {
		a.renderError(c, err)
		return
	}

	a.setSessionCookie(c, token, sessionCookieMaxAge)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// Logout only clears the session cookie; tokens are stateless and there
// is nothing to revoke server-side.
func (a *AuthController) Logout(c *gin.Context) {
	a.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

type onboardPayload struct {
	FullName         string `json:"fullName"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
}

func (a *AuthController) Onboard(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized - No user in context"})
		return
	}

	var p onboardPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	updated, err := a.auth.Onboard(c.Request.Context(), user.ID,
		p.FullName, p.Bio, p.NativeLanguage, p.LearningLanguage, p.Location)
	if err != nil {
		a.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User onboarded successfully",
		"user":    updated,
	})
}

// CurrentUser returns the authenticated user placed in the context by the
// auth middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func (a *AuthController) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", a.secureCookies, true)
}

func (a *AuthController) renderError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		body := gin.H{"message": vErr.Message}
		if len(vErr.MissingFields) > 0 {
			body["missingFields"] = vErr.MissingFields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, models.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	default:
		a.logger.Error("request failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
