package domain

import "time"

// CareerRecommendation is a single suggested career as returned by the model.
// Salary is free text (a range in local currency); it is never parsed.
type CareerRecommendation struct {
	Name        string   `json:"name"`
	Explanation string   `json:"explanation,omitempty"`
	Path        []string `json:"path"`
	Salary      string   `json:"salary"`
}

// RecommendationSet is the parsed model reply. The prompt asks for exactly
// three careers but the count is a contract with the model, not enforced here.
type RecommendationSet struct {
	Careers []CareerRecommendation `json:"careers"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecommendationRecord is one persisted request/response pair.
// JSON field names follow the wire shape of the history listing.
type RecommendationRecord struct {
	ID        uint              `json:"id"`
	UserText  string            `json:"user_text"`
	Response  RecommendationSet `json:"ai_response"`
	CreatedAt time.Time         `json:"created_at"`
}
