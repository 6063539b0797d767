package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ConversionStorage implements the ConversionStorage interface for Badger
type ConversionStorage struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// NewConversionStorage opens the history database described by config
func NewConversionStorage(config *common.BadgerConfig, logger arbor.ILogger) (*ConversionStorage, error) {
	store, err := openHistoryStore(config, logger)
	if err != nil {
		return nil, err
	}
	return &ConversionStorage{
		store:  store,
		logger: logger,
	}, nil
}

// Compile-time interface assertion
var _ interfaces.ConversionStorage = (*ConversionStorage)(nil)

func (s *ConversionStorage) SaveConversion(ctx context.Context, record *models.ConversionRecord) error {
	if record.ID == "" {
		return fmt.Errorf("conversion ID is required")
	}
	if err := s.store.Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save conversion: %w", err)
	}
	return nil
}

func (s *ConversionStorage) GetConversion(ctx context.Context, id string) (*models.ConversionRecord, error) {
	var record models.ConversionRecord
	if err := s.store.Get(id, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrConversionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get conversion: %w", err)
	}
	return &record, nil
}

// ListConversions returns the newest records first
func (s *ConversionStorage) ListConversions(ctx context.Context, limit int) ([]*models.ConversionRecord, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.ConversionRecord
	if err := s.store.Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}

	result := make([]*models.ConversionRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *ConversionStorage) DeleteConversion(ctx context.Context, id string) error {
	if err := s.store.Delete(id, &models.ConversionRecord{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete conversion: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying database
func (s *ConversionStorage) Close() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}
