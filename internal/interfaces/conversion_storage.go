package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/pdfdeck/internal/models"
)

// ErrConversionNotFound is returned when a conversion record does not exist
var ErrConversionNotFound = errors.New("conversion not found")

// ConversionStorage persists the conversion history
type ConversionStorage interface {
	// SaveConversion inserts or replaces a record keyed by its ID
	SaveConversion(ctx context.Context, record *models.ConversionRecord) error

	// GetConversion returns the record with the given ID
	GetConversion(ctx context.Context, id string) (*models.ConversionRecord, error)

	// ListConversions returns up to limit records, newest first (limit <= 0 = all)
	ListConversions(ctx context.Context, limit int) ([]*models.ConversionRecord, error)

	// DeleteConversion removes a record
	DeleteConversion(ctx context.Context, id string) error

	// Close releases the underlying store
	Close() error
}
