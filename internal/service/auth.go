package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"linguachat/internal/logger"
	"linguachat/internal/models"
	"linguachat/internal/stream"
	"linguachat/internal/utils"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the persistence layer for user records.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.User, error)
}

// IdentitySync pushes profile data to the chat provider. Calls are
// best-effort: the service logs failures and never surfaces them.
type IdentitySync interface {
	UpsertUser(ctx context.Context, p stream.UserProfile) error
}

// TokenIssuer mints session tokens for a user id.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// Auth orchestrates signup, login and onboarding.
type Auth struct {
	store  UserStore
	chat   IdentitySync
	tokens TokenIssuer
	logger *logger.Logger
}

func NewAuth(store UserStore, chat IdentitySync, tokens TokenIssuer, logger *logger.Logger) *Auth {
	return &Auth{store: store, chat: chat, tokens: tokens, logger: logger}
}

// Signup creates a user and issues a session token. The chat-provider
// upsert is awaited but its failure never fails the signup.
func (a *Auth) Signup(ctx context.Context, fullName, email, password string) (*models.User, string, error) {
	if fullName == "" || email == "" || password == "" {
		return nil, "", &ValidationError{Message: "All fields are required"}
	}
	if len(password) < 8 {
		return nil, "", &ValidationError{Message: "Password must be at least 8 characters long"}
	}
	if !emailRe.MatchString(email) {
		return nil, "", &ValidationError{Message: "Invalid email format"}
	}

	_, err := a.store.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", models.ErrDuplicateEmail
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, "", fmt.Errorf("check existing email: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:         uuid.New(),
		FullName:   fullName,
		Email:      email,
		Password:   hash,
		ProfilePic: utils.RandomAvatarURL(),
	}
	// the unique index on email is the real guard; a concurrent signup
	// that wins the race surfaces here as ErrDuplicateEmail
	if err := a.store.Create(ctx, user); err != nil {
		return nil, "", err
	}

	a.syncIdentity(ctx, user)

	tok, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return user, tok, nil
}

// Login verifies credentials and issues a fresh session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", &ValidationError{Message: "All fields are required"}
	}

	user, err := a.store.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	if err := utils.CheckPasswordHash(user.Password, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := a.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return user, tok, nil
}

// Onboard completes the user's profile and flips the onboarded flag in a
// single store update. The flag never transitions back to false.
func (a *Auth) Onboard(ctx context.Context, userID uuid.UUID, fullName, bio, nativeLanguage, learningLanguage, location string) (*models.User, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"fullName", fullName},
		{"bio", bio},
		{"nativeLanguage", nativeLanguage},
		{"learningLanguage", learningLanguage},
		{"location", location},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Message: "All fields are required", MissingFields: missing}
	}

	user, err := a.store.UpdateProfile(ctx, userID, models.ProfileUpdate{
		FullName:         fullName,
		Bio:              bio,
		NativeLanguage:   nativeLanguage,
		LearningLanguage: learningLanguage,
		Location:         location,
	})
	if err != nil {
		return nil, err
	}

	a.syncIdentity(ctx, user)

	return user, nil
}

// syncIdentity pushes the profile to the chat provider, swallowing any
// failure so a provider outage never blocks signup or onboarding.
func (a *Auth) syncIdentity(ctx context.Context, user *models.User) {
	err := a.chat.UpsertUser(ctx, stream.UserProfile{
		ID:               user.ID.String(),
		Name:             user.FullName,
		Image:            user.ProfilePic,
		NativeLanguage:   user.NativeLanguage,
		LearningLanguage: user.LearningLanguage,
		Location:         user.Location,
	})
	if err != nil {
		a.logger.Error("failed to sync user to chat provider",
			"user_id", user.ID,
			"error", err.Error())
	}
}
