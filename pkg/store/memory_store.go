package store

import (
	"sync"
	"time"

	"careeradvisor/pkg/domain"
)

// MemoryStore keeps all records in-process. Tests use it in place of the
// Postgres-backed store.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  uint
	records []domain.RecommendationRecord // append order == insertion order
	users   map[string]domain.User        // key: email
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		users:  make(map[string]domain.User),
	}
}

func (m *MemoryStore) SaveRecommendation(userText string, set domain.RecommendationSet) (domain.RecommendationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record := domain.RecommendationRecord{
		ID:        m.nextID,
		UserText:  userText,
		Response:  set,
		CreatedAt: time.Now().UTC(),
	}
	m.nextID++
	m.records = append(m.records, record)
	return record, nil
}

func (m *MemoryStore) ListRecommendations(limit, offset int) ([]domain.RecommendationRecord, error) {
	limit, offset = ClampPage(limit, offset)
	m.mu.RLock()
	defer m.mu.RUnlock()
	// newest first
	res := make([]domain.RecommendationRecord, 0, limit)
	for i := len(m.records) - 1 - offset; i >= 0 && len(res) < limit; i-- {
		res = append(res, m.records[i])
	}
	return res, nil
}

func (m *MemoryStore) CreateUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Email]; exists {
		return ErrEmailTaken
	}
	m.users[u.Email] = u
	return nil
}

func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[email]
	return ok, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	return u, ok, nil
}
