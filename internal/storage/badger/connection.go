package badger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	dgbadger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// Store sizing for a history of small records, one per conversion
const (
	historyMemTableSize     = 8 << 20
	historyValueLogFileSize = 16 << 20
	historyBlockCacheSize   = 8 << 20
)

// historyOptions returns the badgerhold options for the history store at path
func historyOptions(path string, config *common.BadgerConfig, logger arbor.ILogger) badgerhold.Options {
	options := badgerhold.DefaultOptions
	options.Options = dgbadger.DefaultOptions(path).
		WithSyncWrites(config.SyncWrites).
		WithNumVersionsToKeep(1).
		WithMemTableSize(historyMemTableSize).
		WithNumMemtables(2).
		WithValueLogFileSize(historyValueLogFileSize).
		WithBlockCacheSize(historyBlockCacheSize).
		WithCompactL0OnClose(true).
		WithLogger(badgerLogger{logger: logger})
	return options
}

// openHistoryStore opens (creating when missing) the history database.
// With reset_on_startup the previous history is removed first.
func openHistoryStore(config *common.BadgerConfig, logger arbor.ILogger) (*badgerhold.Store, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("history database path is required")
	}

	if config.ResetOnStartup {
		if err := os.RemoveAll(config.Path); err != nil {
			logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to reset history database")
		} else {
			logger.Debug().Str("path", config.Path).Msg("History database reset")
		}
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	store, err := badgerhold.Open(historyOptions(config.Path, config, logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", config.Path, err)
	}

	logger.Debug().
		Str("path", config.Path).
		Bool("sync_writes", config.SyncWrites).
		Msg("History database opened")
	return store, nil
}

// badgerLogger routes Badger's own logging into arbor. Badger reports
// routine compaction at info level, which is kept at debug here.
type badgerLogger struct {
	logger arbor.ILogger
}

var _ dgbadger.Logger = badgerLogger{}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Str("component", "badger").Msg(trimLog(format, args))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Str("component", "badger").Msg(trimLog(format, args))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Str("component", "badger").Msg(trimLog(format, args))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Str("component", "badger").Msg(trimLog(format, args))
}

func trimLog(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
