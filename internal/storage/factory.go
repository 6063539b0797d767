package storage

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/models"
	"github.com/ternarybob/pdfdeck/internal/storage/badger"
)

// NewConversionStorage returns the Badger-backed history store, or a store
// that discards everything when history is disabled
func NewConversionStorage(logger arbor.ILogger, config *common.Config) (interfaces.ConversionStorage, error) {
	if !config.Storage.Badger.Enabled {
		logger.Debug().Msg("Conversion history disabled")
		return NoopConversionStorage{}, nil
	}

	return badger.NewConversionStorage(&config.Storage.Badger, logger)
}

// NoopConversionStorage records nothing
type NoopConversionStorage struct{}

var _ interfaces.ConversionStorage = NoopConversionStorage{}

func (NoopConversionStorage) SaveConversion(ctx context.Context, record *models.ConversionRecord) error {
	return nil
}

func (NoopConversionStorage) GetConversion(ctx context.Context, id string) (*models.ConversionRecord, error) {
	return nil, interfaces.ErrConversionNotFound
}

func (NoopConversionStorage) ListConversions(ctx context.Context, limit int) ([]*models.ConversionRecord, error) {
	return nil, nil
}

func (NoopConversionStorage) DeleteConversion(ctx context.Context, id string) error {
	return nil
}

func (NoopConversionStorage) Close() error {
	return nil
}
