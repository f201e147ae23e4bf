package ai

import (
	"encoding/json"
	"errors"
	"strings"

	"careeradvisor/pkg/domain"
)

var (
	// ErrNoJSON means the reply contained no brace-delimited span at all.
	ErrNoJSON = errors.New("no valid response received")
	// ErrBadJSON means a span was found but did not parse.
	ErrBadJSON = errors.New("invalid structured data received")
)

// ExtractRecommendations pulls the recommendation set out of a raw model
// reply. Models frequently wrap the JSON in prose or markdown fences, so the
// candidate span runs from the first '{' to the last '}' in the text.
//
// This is deliberately not a balanced-bracket scanner: a reply containing
// several unrelated brace fragments can select a span covering all of them.
// Accepted limitation; the prompt asks the model for JSON only, so such
// replies are rare.
func ExtractRecommendations(text string) (domain.RecommendationSet, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return domain.RecommendationSet{}, ErrNoJSON
	}
	var set domain.RecommendationSet
	if err := json.Unmarshal([]byte(text[start:end+1]), &set); err != nil {
		return domain.RecommendationSet{}, ErrBadJSON
	}
	return set, nil
}
