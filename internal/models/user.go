package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by store lookups that match no user.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a create collides with the
	// unique index on email.
	ErrDuplicateEmail = errors.New("email already in use")
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName         string `gorm:"not null" json:"fullName"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Password         string `json:"-"`
	Bio              string `json:"bio"`
	ProfilePic       string `json:"profilePic"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
	IsOnboarded      bool   `gorm:"default:false" json:"isOnboarded"`
}

// ProfileUpdate carries the onboarding fields applied to a user in a
// single update together with the onboarded flag.
type ProfileUpdate struct {
	FullName         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
}
