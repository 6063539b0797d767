package badger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/models"
)

func newTestStorage(t *testing.T) *ConversionStorage {
	t.Helper()
	storage, err := NewConversionStorage(&common.BadgerConfig{
		Enabled:    true,
		Path:       filepath.Join(t.TempDir(), "history"),
		SyncWrites: true,
	}, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestConversionStorage_SaveAndGet(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	record := &models.ConversionRecord{
		ID:           "conv_1",
		SourceName:   "report.pdf",
		OutputPath:   "/tmp/report.pptx",
		PageCount:    3,
		SlideCount:   2,
		SkippedPages: []int{1},
		ArchiveSize:  4096,
		Status:       models.ConversionStatusCompleted,
		Duration:     1500 * time.Millisecond,
		CreatedAt:    time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, storage.SaveConversion(ctx, record))

	got, err := storage.GetConversion(ctx, "conv_1")
	require.NoError(t, err)
	assert.Equal(t, record.SourceName, got.SourceName)
	assert.Equal(t, record.SkippedPages, got.SkippedPages)
	assert.Equal(t, record.ArchiveSize, got.ArchiveSize)
	assert.Equal(t, record.Duration, got.Duration)
	assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
}

func TestConversionStorage_SaveRequiresID(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.SaveConversion(context.Background(), &models.ConversionRecord{SourceName: "x.pdf"})
	assert.Error(t, err)
}

func TestConversionStorage_GetMissing(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.GetConversion(context.Background(), "conv_missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrConversionNotFound))
}

func TestConversionStorage_ListNewestFirst(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"conv_a", "conv_b", "conv_c"} {
		require.NoError(t, storage.SaveConversion(ctx, &models.ConversionRecord{
			ID:        id,
			Status:    models.ConversionStatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := storage.ListConversions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "conv_c", all[0].ID)
	assert.Equal(t, "conv_a", all[2].ID)

	limited, err := storage.ListConversions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "conv_c", limited[0].ID)
	assert.Equal(t, "conv_b", limited[1].ID)
}

func TestConversionStorage_Delete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveConversion(ctx, &models.ConversionRecord{ID: "conv_gone", CreatedAt: time.Now()}))
	require.NoError(t, storage.DeleteConversion(ctx, "conv_gone"))
	require.NoError(t, storage.DeleteConversion(ctx, "conv_gone"))

	_, err := storage.GetConversion(ctx, "conv_gone")
	assert.True(t, errors.Is(err, interfaces.ErrConversionNotFound))
}

func TestNewConversionStorage_ResetOnStartup(t *testing.T) {
	logger := arbor.NewLogger()
	config := &common.BadgerConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "history")}
	ctx := context.Background()

	storage, err := NewConversionStorage(config, logger)
	require.NoError(t, err)
	require.NoError(t, storage.SaveConversion(ctx, &models.ConversionRecord{ID: "conv_old", CreatedAt: time.Now()}))
	require.NoError(t, storage.Close())

	storage, err = NewConversionStorage(config, logger)
	require.NoError(t, err)
	_, err = storage.GetConversion(ctx, "conv_old")
	require.NoError(t, err, "history survives a reopen")
	require.NoError(t, storage.Close())

	config.ResetOnStartup = true
	storage, err = NewConversionStorage(config, logger)
	require.NoError(t, err)
	defer storage.Close()

	records, err := storage.ListConversions(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewConversionStorage_RequiresPath(t *testing.T) {
	_, err := NewConversionStorage(&common.BadgerConfig{Enabled: true}, arbor.NewLogger())
	assert.Error(t, err)
}

func TestConversionStorage_CloseTwice(t *testing.T) {
	storage := newTestStorage(t)
	require.NoError(t, storage.Close())
	assert.NoError(t, storage.Close())
}

func TestHistoryOptions(t *testing.T) {
	config := &common.BadgerConfig{Path: "/var/lib/pdfdeck/history", SyncWrites: true}
	options := historyOptions(config.Path, config, arbor.NewLogger())

	assert.Equal(t, config.Path, options.Dir)
	assert.Equal(t, config.Path, options.ValueDir)
	assert.True(t, options.SyncWrites)
	assert.Equal(t, 1, options.NumVersionsToKeep)
	assert.Equal(t, int64(historyValueLogFileSize), options.ValueLogFileSize)
	assert.Equal(t, int64(historyMemTableSize), options.MemTableSize)
	assert.True(t, options.CompactL0OnClose)
	assert.IsType(t, badgerLogger{}, options.Logger)
	assert.NotNil(t, options.Encoder)
}

func TestTrimLog(t *testing.T) {
	assert.Equal(t, "Replaying file id: 3 at offset: 0", trimLog("Replaying file id: %d at offset: %d\n", []interface{}{3, 0}))
}
