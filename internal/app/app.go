// -----------------------------------------------------------------------
// Application wiring - storage and services in dependency order
// -----------------------------------------------------------------------

package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/services/converter"
	"github.com/ternarybob/pdfdeck/internal/services/docx"
	"github.com/ternarybob/pdfdeck/internal/services/pdf"
	"github.com/ternarybob/pdfdeck/internal/services/pptx"
	"github.com/ternarybob/pdfdeck/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Conversion history
	Storage interfaces.ConversionStorage

	// PDF -> PPTX pipeline
	Opener     interfaces.PDFOpener
	Rasterizer *pdf.Rasterizer
	Builder    *pptx.Builder
	Converter  *converter.Service

	// DOCX text extraction
	Extractor interfaces.TextExtractor
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.initServices()

	logger.Debug().
		Bool("history_enabled", cfg.Storage.Badger.Enabled).
		Str("output_dir", cfg.Output.Dir).
		Int("max_pixel_dimension", cfg.Render.MaxPixelDimension).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage opens the conversion history store
func (a *App) initStorage() error {
	store, err := storage.NewConversionStorage(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create conversion storage: %w", err)
	}
	a.Storage = store

	a.Logger.Debug().
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")
	return nil
}

// initServices builds the services in dependency order
func (a *App) initServices() {
	a.Opener = pdf.NewOpener(a.Logger)
	a.Rasterizer = pdf.NewRasterizer(a.Config.Render, a.Logger)
	a.Builder = pptx.NewBuilder(a.Config.Package, a.Logger)
	a.Converter = converter.NewService(
		a.Config.Output,
		a.Opener,
		a.Rasterizer,
		a.Builder,
		a.Storage,
		a.Logger,
	)
	a.Extractor = docx.NewExtractor(a.Config.Docx, a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Debug().Msg("Storage closed")
	}
	return nil
}
