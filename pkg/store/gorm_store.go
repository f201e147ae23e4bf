package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"careeradvisor/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&RecommendationModel{}, &UserModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Ping reports whether the underlying connection is usable. The startup
// readiness gate polls this before the server accepts traffic.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SaveRecommendation inserts a request/response pair. The response is
// serialized to the JSON column; id and timestamp are assigned here.
func (s *GormStore) SaveRecommendation(userText string, set domain.RecommendationSet) (domain.RecommendationRecord, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return domain.RecommendationRecord{}, fmt.Errorf("encode response: %w", err)
	}
	model := RecommendationModel{
		UserText:   userText,
		AIResponse: payload,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.RecommendationRecord{}, fmt.Errorf("insert recommendation: %w", err)
	}
	return recommendationToDomain(model)
}

// ListRecommendations returns records newest first.
func (s *GormStore) ListRecommendations(limit, offset int) ([]domain.RecommendationRecord, error) {
	limit, offset = ClampPage(limit, offset)
	var models []RecommendationModel
	err := s.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	records := make([]domain.RecommendationRecord, 0, len(models))
	for _, model := range models {
		record, err := recommendationToDomain(model)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// CreateUser inserts a new account. A duplicate email maps to ErrEmailTaken
// so callers can translate it to a conflict response.
func (s *GormStore) CreateUser(u domain.User) error {
	model := UserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// HasUserEmail checks if email exists.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByEmail fetches a user; the bool reports presence.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	err := s.db.Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return domain.User{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
	}, true, nil
}

func recommendationToDomain(model RecommendationModel) (domain.RecommendationRecord, error) {
	var set domain.RecommendationSet
	if err := json.Unmarshal(model.AIResponse, &set); err != nil {
		return domain.RecommendationRecord{}, fmt.Errorf("decode stored response %d: %w", model.ID, err)
	}
	return domain.RecommendationRecord{
		ID:        model.ID,
		UserText:  model.UserText,
		Response:  set,
		CreatedAt: model.CreatedAt,
	}, nil
}
