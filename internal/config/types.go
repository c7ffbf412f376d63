// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"rawdex/pkg/rawkind"
)

var (
	// ErrInvalidCategoryToken is the sentinel error wrapped by InvalidCategoryTokenError.
	ErrInvalidCategoryToken = errors.New("invalid category token")
	// ErrInvalidLocationToken is the sentinel error wrapped by InvalidLocationTokenError.
	ErrInvalidLocationToken = errors.New("invalid location token")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// CategoryToken is an object category name as written in configuration
	// (e.g. "CREATURE", "INORGANIC"). The CUE schema checks the shape;
	// whether the name denotes a known category is checked here, against
	// the same table the parser uses.
	CategoryToken string

	// LocationToken is a module location name as written in configuration:
	// "vanilla", "installed", or "workshop".
	LocationToken string

	// InvalidCategoryTokenError is returned when a CategoryToken does not
	// name a known object category. It wraps ErrInvalidCategoryToken for
	// errors.Is() compatibility.
	InvalidCategoryTokenError struct {
		Value CategoryToken
	}

	// InvalidLocationTokenError is returned when a LocationToken does not
	// name a known module location. It wraps ErrInvalidLocationToken for
	// errors.Is() compatibility.
	InvalidLocationTokenError struct {
		Value LocationToken
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// SourcesConfig lists the root directories scanned for modules, one
	// list per location. Roots scan in the order given; missing roots are
	// skipped during discovery.
	SourcesConfig struct {
		// Vanilla holds roots for built-in content.
		Vanilla []string `json:"vanilla" mapstructure:"vanilla"`
		// Installed holds roots for locally installed modules.
		Installed []string `json:"installed" mapstructure:"installed"`
		// Workshop holds roots for downloaded workshop modules.
		Workshop []string `json:"workshop" mapstructure:"workshop"`
	}

	// IngestConfig tunes an ingestion run.
	IngestConfig struct {
		// Workers bounds the object-parsing pool. Zero means one worker
		// per CPU.
		Workers int `json:"workers" mapstructure:"workers"`
		// Strict escalates a missing requires target from warning to
		// failure.
		Strict bool `json:"strict" mapstructure:"strict"`
		// Categories restricts parsing to the listed object categories.
		// Empty means all categories.
		Categories []CategoryToken `json:"categories" mapstructure:"categories"`
		// Locations restricts scanning to the listed source locations.
		// Empty means all locations.
		Locations []LocationToken `json:"locations" mapstructure:"locations"`
		// ApplyVariations expands creature variation templates during
		// ingestion. When false, call tokens are kept as raw tags.
		ApplyVariations bool `json:"apply_variations" mapstructure:"apply_variations"`
		// AttachMetadata loads the optional module.toml next to each
		// module descriptor.
		AttachMetadata bool `json:"attach_metadata" mapstructure:"attach_metadata"`
	}

	// SearchConfig tunes query commands.
	SearchConfig struct {
		// Limit is the default result page size.
		Limit int `json:"limit" mapstructure:"limit"`
	}

	// ServeConfig configures the SSH query console.
	ServeConfig struct {
		// Address is the bind address (host:port).
		Address string `json:"address" mapstructure:"address"`
		// HostKey is the path to the server's host key. Empty generates
		// a key under the config directory on first start.
		HostKey string `json:"host_key" mapstructure:"host_key"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		// Verbose enables debug-level logging with caller reporting.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// Sources lists the module source roots per location.
		Sources SourcesConfig `json:"sources" mapstructure:"sources"`
		// Ingest tunes ingestion runs.
		Ingest IngestConfig `json:"ingest" mapstructure:"ingest"`
		// Search tunes query commands.
		Search SearchConfig `json:"search" mapstructure:"search"`
		// Serve configures the SSH query console.
		Serve ServeConfig `json:"serve" mapstructure:"serve"`
		// Log configures logging.
		Log LogConfig `json:"log" mapstructure:"log"`
	}
)

// String returns the string representation of the CategoryToken.
func (c CategoryToken) String() string { return string(c) }

// Category resolves the token to its object category.
func (c CategoryToken) Category() (rawkind.Category, bool) {
	return rawkind.ParseCategory(string(c))
}

// Validate returns nil if the token names a known object category, or an
// error wrapping ErrInvalidCategoryToken if it does not.
func (c CategoryToken) Validate() error {
	if _, ok := rawkind.ParseCategory(string(c)); !ok {
		return &InvalidCategoryTokenError{Value: c}
	}
	return nil
}

// Error implements the error interface for InvalidCategoryTokenError.
func (e *InvalidCategoryTokenError) Error() string {
	return fmt.Sprintf("invalid category token %q: not a known object category", e.Value)
}

// Unwrap returns ErrInvalidCategoryToken for errors.Is() compatibility.
func (e *InvalidCategoryTokenError) Unwrap() error { return ErrInvalidCategoryToken }

// String returns the string representation of the LocationToken.
func (l LocationToken) String() string { return string(l) }

// Location resolves the token to its module location.
func (l LocationToken) Location() (rawkind.Location, bool) {
	return rawkind.ParseLocation(string(l))
}

// Validate returns nil if the token names a known module location, or an
// error wrapping ErrInvalidLocationToken if it does not.
func (l LocationToken) Validate() error {
	if _, ok := rawkind.ParseLocation(string(l)); !ok {
		return &InvalidLocationTokenError{Value: l}
	}
	return nil
}

// Error implements the error interface for InvalidLocationTokenError.
func (e *InvalidLocationTokenError) Error() string {
	return fmt.Sprintf("invalid location token %q (valid: vanilla, installed, workshop)", e.Value)
}

// Unwrap returns ErrInvalidLocationToken for errors.Is() compatibility.
func (e *InvalidLocationTokenError) Unwrap() error { return ErrInvalidLocationToken }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %s", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the constraints the CUE schema cannot express: category
// and location tokens must resolve against the tables the parser and
// discovery actually use. It returns nil or an *InvalidConfigError
// collecting every offending field.
func (c *Config) Validate() error {
	var errs []error
	for _, tok := range c.Ingest.Categories {
		if err := tok.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("ingest.categories: %w", err))
		}
	}
	for _, tok := range c.Ingest.Locations {
		if err := tok.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("ingest.locations: %w", err))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// CategoryFilter resolves the configured category tokens. The second
// result is false when no filter is configured, meaning all categories.
func (c *Config) CategoryFilter() ([]rawkind.Category, bool) {
	if len(c.Ingest.Categories) == 0 {
		return nil, false
	}
	cats := make([]rawkind.Category, 0, len(c.Ingest.Categories))
	for _, tok := range c.Ingest.Categories {
		if cat, ok := tok.Category(); ok {
			cats = append(cats, cat)
		}
	}
	return cats, true
}

// LocationEnabled reports whether a location passes the configured
// location filter. An empty filter enables every location.
func (c *Config) LocationEnabled(loc rawkind.Location) bool {
	if len(c.Ingest.Locations) == 0 {
		return true
	}
	for _, tok := range c.Ingest.Locations {
		if l, ok := tok.Location(); ok && l == loc {
			return true
		}
	}
	return false
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Vanilla:   []string{},
			Installed: []string{},
			Workshop:  []string{},
		},
		Ingest: IngestConfig{
			Workers:         0, // one worker per CPU
			Strict:          false,
			Categories:      nil,
			Locations:       nil,
			ApplyVariations: true,
			AttachMetadata:  true,
		},
		Search: SearchConfig{
			Limit: 18,
		},
		Serve: ServeConfig{
			Address: "localhost:23234",
			HostKey: "", // generated under the config directory
		},
		Log: LogConfig{
			Verbose: false,
		},
	}
}
