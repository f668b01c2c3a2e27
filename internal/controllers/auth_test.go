package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguachat/internal/logger"
	"linguachat/internal/middleware"
	"linguachat/internal/models"
	"linguachat/internal/service"
	"linguachat/internal/stream"
	"linguachat/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStore struct {
	users map[uuid.UUID]*models.User
}

func newStubStore() *stubStore {
	return &stubStore{users: map[uuid.UUID]*models.User{}}
}

func (s *stubStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (s *stubStore) Create(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubStore) UpdateProfile(_ context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.FullName = p.FullName
	u.Bio = p.Bio
	u.NativeLanguage = p.NativeLanguage
	u.LearningLanguage = p.LearningLanguage
	u.Location = p.Location
	u.IsOnboarded = true
	return u, nil
}

type stubChat struct{}

func (stubChat) UpsertUser(context.Context, stream.UserProfile) error { return nil }

func noopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newTestRouter() (*gin.Engine, *stubStore, *token.Issuer) {
	store := newStubStore()
	issuer := token.NewIssuer("test-secret")
	auth := service.NewAuth(store, stubChat{}, issuer, noopLogger())
	ac := NewAuthController(auth, false, noopLogger())

	r := gin.New()
	api := r.Group("/api/auth")
	api.POST("/signup", ac.SignUp)
	api.POST("/login", ac.Login)
	api.POST("/logout", ac.Logout)

	protected := r.Group("/api/auth")
	protected.Use(middleware.Protect(issuer, store))
	protected.POST("/onboarding", ac.Onboard)

	return r, store, issuer
}

func doJSON(r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	t.Fatal("no jwt cookie in response")
	return nil
}

const signupBody = `{"fullName":"Maria Silva","email":"maria@example.com","password":"password123"}`

func TestSignUp_Created(t *testing.T) {
	r, _, issuer := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/auth/signup", signupBody)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User created successfully", body["message"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "maria@example.com", user["email"])
	assert.Equal(t, false, user["isOnboarded"])
	assert.NotContains(t, user, "password")

	c := sessionCookie(t, w)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure, "secure flag only in production")
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, 7*24*60*60, c.MaxAge)

	subject, err := issuer.Verify(c.Value)
	require.NoError(t, err)
	assert.Equal(t, user["id"], subject.String())
}

func TestSignUp_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing fields", `{"email":"maria@example.com"}`, "All fields are required"},
		{"short password", `{"fullName":"Maria","email":"maria@example.com","password":"1234567"}`, "Password must be at least 8 characters long"},
		{"bad email", `{"fullName":"Maria","email":"not-an-email","password":"password123"}`, "Invalid email format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, _ := newTestRouter()

			w := doJSON(r, http.MethodPost, "/api/auth/signup", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decodeBody(t, w)["message"])
			assert.Empty(t, store.users)
		})
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/auth/signup", signupBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/signup", signupBody)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already in use", decodeBody(t, w)["message"])
}

func TestSignUp_InvalidBody(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/auth/signup", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, w)["message"])
}

func TestLogin_Success(t *testing.T) {
	r, _, issuer := newTestRouter()
	doJSON(r, http.MethodPost, "/api/auth/signup", signupBody)

	w := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"maria@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)

	c := sessionCookie(t, w)
	subject, err := issuer.Verify(c.Value)
	require.NoError(t, err)
	assert.Equal(t, user["id"], subject.String())
}

func TestLogin_MissingFields(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"maria@example.com"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", decodeBody(t, w)["message"])
}

func TestLogin_IdenticalErrorBodies(t *testing.T) {
	r, _, _ := newTestRouter()
	doJSON(r, http.MethodPost, "/api/auth/signup", signupBody)

	wrongPassword := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"maria@example.com","password":"wrongpassword"}`)
	unknownEmail := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com","password":"password123"}`)

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.Bytes(), unknownEmail.Body.Bytes())
}

func TestLogout_ClearsCookie(t *testing.T) {
	r, _, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Logout successful", body["message"])

	c := sessionCookie(t, w)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestOnboarding_RequiresAuth(t *testing.T) {
	r, _, issuer := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/auth/onboarding", "{}")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized - No token provided", decodeBody(t, w)["message"])

	w = doJSON(r, http.MethodPost, "/api/auth/onboarding", "{}",
		&http.Cookie{Name: "jwt", Value: "garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized - Invalid token", decodeBody(t, w)["message"])

	// valid token for a user that no longer exists
	tok, err := issuer.Issue(uuid.New())
	require.NoError(t, err)
	w = doJSON(r, http.MethodPost, "/api/auth/onboarding", "{}",
		&http.Cookie{Name: "jwt", Value: tok})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized - User not found", decodeBody(t, w)["message"])
}

func TestOnboarding_MissingFieldsListed(t *testing.T) {
	r, _, _ := newTestRouter()
	signup := doJSON(r, http.MethodPost, "/api/auth/signup", signupBody)
	cookie := sessionCookie(t, signup)

	w := doJSON(r, http.MethodPost, "/api/auth/onboarding",
		`{"fullName":"Maria","nativeLanguage":"Portuguese","location":"Lisbon"}`, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "All fields are required", body["message"])
	assert.Equal(t, []any{"bio", "learningLanguage"}, body["missingFields"])
}

func TestOnboarding_Success(t *testing.T) {
	r, store, _ := newTestRouter()
	signup := doJSON(r, http.MethodPost, "/api/auth/signup", signupBody)
	cookie := sessionCookie(t, signup)

	w := doJSON(r, http.MethodPost, "/api/auth/onboarding",
		`{"fullName":"Maria Silva","bio":"Learning for travel","nativeLanguage":"Portuguese","learningLanguage":"Japanese","location":"Lisbon"}`,
		cookie)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User onboarded successfully", body["message"])

	user := body["user"].(map[string]any)
	assert.Equal(t, true, user["isOnboarded"])
	assert.Equal(t, "Japanese", user["learningLanguage"])

	for _, u := range store.users {
		assert.True(t, u.IsOnboarded)
	}
}
