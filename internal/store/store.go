package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"waste-monitor-backend/internal/model"
)

// ErrNotFound is returned when a push subscription does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all database operations.
type Store interface {
	// Append persists a new reading. Readings are never updated or deleted.
	Append(ctx context.Context, r model.Reading) (model.Reading, error)
	// All returns every reading in insertion order.
	All(ctx context.Context) ([]model.Reading, error)
	// ByBin returns the readings of one bin in insertion order.
	ByBin(ctx context.Context, binID string) ([]model.Reading, error)
	// Recent returns up to limit readings, newest first.
	Recent(ctx context.Context, limit int) ([]model.Reading, error)

	PutSubscription(ctx context.Context, sub model.PushSubscription, binIDs []string) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	SubscriptionsForBin(ctx context.Context, binID string) ([]model.PushSubscription, error)

	Ping(ctx context.Context) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Append(ctx context.Context, r model.Reading) (model.Reading, error) {
	r.Seq = 0
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return model.Reading{}, fmt.Errorf("failed to append reading for bin %q: %w", r.BinID, err)
	}
	return r, nil
}

func (s *gormStore) All(ctx context.Context) ([]model.Reading, error) {
	readings := []model.Reading{}
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to load readings: %w", err)
	}
	return inUTC(readings), nil
}

func (s *gormStore) ByBin(ctx context.Context, binID string) ([]model.Reading, error) {
	readings := []model.Reading{}
	if err := s.db.WithContext(ctx).Where("bin_id = ?", binID).Order("seq ASC").Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to load readings for bin %q: %w", binID, err)
	}
	return inUTC(readings), nil
}

func (s *gormStore) Recent(ctx context.Context, limit int) ([]model.Reading, error) {
	readings := []model.Reading{}
	if err := s.db.WithContext(ctx).Order("seq DESC").Limit(limit).Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent readings: %w", err)
	}
	return inUTC(readings), nil
}

// inUTC normalizes timestamps read back from the database; pgx returns
// timestamptz values in the host's local zone.
func inUTC(readings []model.Reading) []model.Reading {
	for i := range readings {
		readings[i].Timestamp = readings[i].Timestamp.UTC()
	}
	return readings
}

// PutSubscription creates or replaces a subscription and its bin list.
func (s *gormStore) PutSubscription(ctx context.Context, sub model.PushSubscription, binIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub.Bins = nil
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		if err := tx.Where("endpoint = ?", sub.Endpoint).Delete(&model.SubscriptionBin{}).Error; err != nil {
			return fmt.Errorf("failed to clear subscription bins: %w", err)
		}

		seen := make(map[string]struct{}, len(binIDs))
		var rows []model.SubscriptionBin
		for _, id := range binIDs {
			if _, dup := seen[id]; dup || id == "" {
				continue
			}
			seen[id] = struct{}{}
			rows = append(rows, model.SubscriptionBin{Endpoint: sub.Endpoint, BinID: id})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to store subscription bins: %w", err)
			}
		}
		return nil
	})
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", endpoint).Delete(&model.SubscriptionBin{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PushSubscription{Endpoint: endpoint}).Error
	})
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Bins").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PushSubscription{}, ErrNotFound
	}
	if err != nil {
		return model.PushSubscription{}, err
	}
	return sub, nil
}

func (s *gormStore) SubscriptionsForBin(ctx context.Context, binID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_bins sb ON sb.endpoint = push_subscriptions.endpoint").
		Where("sb.bin_id = ?", binID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions for bin %q: %w", binID, err)
	}
	return subs, nil
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
