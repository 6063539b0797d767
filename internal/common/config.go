package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Output      OutputConfig  `toml:"output"`
	Render      RenderConfig  `toml:"render"`
	Package     PackageConfig `toml:"package"`
	Docx        DocxConfig    `toml:"docx"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Batch       BatchConfig   `toml:"batch"`
}

// OutputConfig controls where converted presentations are written
type OutputConfig struct {
	Dir         string `toml:"dir" validate:"required"`          // Destination directory for .pptx files
	DefaultName string `toml:"default_name" validate:"required"` // Used when no output name is given
}

// RenderConfig controls page rasterization
type RenderConfig struct {
	MaxPixelDimension int     `toml:"max_pixel_dimension" validate:"gt=0"` // Longest raster side in pixels
	UpscaleFactor     float64 `toml:"upscale_factor" validate:"gt=0"`      // Supersampling cap for small pages
}

// PackageConfig controls PPTX package assembly
type PackageConfig struct {
	TempDir     string `toml:"temp_dir"`                        // Root for per-build temp directories (empty = os.TempDir)
	Application string `toml:"application" validate:"required"` // docProps/app.xml <Application>
	Creator     string `toml:"creator"`                         // docProps/core.xml <dc:creator>
}

// DocxConfig controls DOCX text extraction
type DocxConfig struct {
	MaxInflatedSize int64 `toml:"max_inflated_size" validate:"gte=0"` // 0 = unlimited
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Enabled        bool   `toml:"enabled"`          // Record conversion history
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
	SyncWrites     bool   `toml:"sync_writes"`      // fsync every history write
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`                                       // "stdout", "file"
	TimeFormat string   `toml:"time_format"`                                  // Time format for logs (default: "15:04:05")
	Dir        string   `toml:"dir"`                                          // Log directory (default: ./logs next to executable)
}

// BatchConfig controls multi-file conversion from the CLI
type BatchConfig struct {
	Concurrency int `toml:"concurrency" validate:"gte=1"` // Max files converted at once
}

// NewDefaultConfig returns a Config populated with the built-in defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Output: OutputConfig{
			Dir:         "./output",
			DefaultName: "converted.pptx",
		},
		Render: RenderConfig{
			MaxPixelDimension: 2880, // Longest side of any rendered page
			UpscaleFactor:     2.0,  // Up to 2x supersampling for small pages
		},
		Package: PackageConfig{
			TempDir:     "",
			Application: "pdfdeck",
			Creator:     "pdfdeck",
		},
		Docx: DocxConfig{
			MaxInflatedSize: 0,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Enabled:    true,
				Path:       "./data",
				SyncWrites: true,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Batch: BatchConfig{
			Concurrency: 2,
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PDFDECK_ENV"); env != "" {
		config.Environment = env
	}

	if dir := os.Getenv("PDFDECK_OUTPUT_DIR"); dir != "" {
		config.Output.Dir = dir
	}
	if name := os.Getenv("PDFDECK_OUTPUT_NAME"); name != "" {
		config.Output.DefaultName = name
	}

	if maxDim := os.Getenv("PDFDECK_RENDER_MAX_PIXEL_DIMENSION"); maxDim != "" {
		if v, err := strconv.Atoi(maxDim); err == nil {
			config.Render.MaxPixelDimension = v
		}
	}
	if factor := os.Getenv("PDFDECK_RENDER_UPSCALE_FACTOR"); factor != "" {
		if v, err := strconv.ParseFloat(factor, 64); err == nil {
			config.Render.UpscaleFactor = v
		}
	}

	if tmp := os.Getenv("PDFDECK_PACKAGE_TEMP_DIR"); tmp != "" {
		config.Package.TempDir = tmp
	}

	if size := os.Getenv("PDFDECK_DOCX_MAX_INFLATED_SIZE"); size != "" {
		if v, err := strconv.ParseInt(size, 10, 64); err == nil {
			config.Docx.MaxInflatedSize = v
		}
	}

	if enabled := os.Getenv("PDFDECK_STORAGE_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			config.Storage.Badger.Enabled = v
		}
	}
	if path := os.Getenv("PDFDECK_STORAGE_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if level := os.Getenv("PDFDECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}
	if output := os.Getenv("PDFDECK_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitString(output, ",")
	}

	if concurrency := os.Getenv("PDFDECK_BATCH_CONCURRENCY"); concurrency != "" {
		if v, err := strconv.Atoi(concurrency); err == nil {
			config.Batch.Concurrency = v
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority).
// Zero values leave the config untouched.
func ApplyFlagOverrides(config *Config, outDir string, logLevel string) {
	if outDir != "" {
		config.Output.Dir = outDir
	}
	if logLevel != "" {
		config.Logging.Level = strings.ToLower(logLevel)
	}
}

// Validate checks the configuration using struct tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func splitString(s, sep string) []string {
	var result []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
