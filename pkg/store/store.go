package store

import (
	"errors"

	"careeradvisor/pkg/domain"
)

// List paging bounds. Out-of-range values are clamped, never rejected.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ErrEmailTaken is returned when a signup collides with an existing email.
var ErrEmailTaken = errors.New("email already registered")

// Store defines persistence for recommendation requests and user accounts.
type Store interface {
	// recommendations
	SaveRecommendation(userText string, set domain.RecommendationSet) (domain.RecommendationRecord, error)
	ListRecommendations(limit, offset int) ([]domain.RecommendationRecord, error)

	// users
	CreateUser(user domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
}

// ClampPage normalizes paging parameters: limit to [1,MaxListLimit] with
// DefaultListLimit for absent/invalid values, offset to >= 0.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
