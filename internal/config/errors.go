package config

import (
	"errors"

	"github.com/dshills/markupcore/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrUnsupportedFormat indicates a file that is neither TOML nor YAML.
	ErrUnsupportedFormat = loader.ErrUnsupportedFormat

	// ErrInvalidColor indicates a color that cannot be parsed.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidValue indicates a setting outside its allowed values.
	ErrInvalidValue = errors.New("invalid value")

	// ErrWatcherClosed indicates use of a closed Watcher.
	ErrWatcherClosed = errors.New("config watcher closed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError
