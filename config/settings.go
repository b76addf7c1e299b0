package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store types
const (
	StoreNone   = "none"
	StoreSQLite = "sqlite"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	ErrInvalidStoreType = errors.New("store type must be none or sqlite")
	ErrInvalidLogFormat = errors.New("log format must be text or json")
)

// Settings are the resolved options for a crawl.
type Settings struct {
	StartID       int
	EndID         int
	RespectRobots bool
	OutputPath    string
	StoreType     string
	StoreDSN      string
	LogLevel      string
	LogFormat     string
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() *Settings {
	return &Settings{
		StartID:    1,
		EndID:      5699,
		OutputPath: "poetry_with_translation.jsonl",
		StoreType:  StoreNone,
		StoreDSN:   "prosefed.db",
		LogLevel:   "info",
		LogFormat:  LogFormatText,
	}
}

// Resolve builds settings with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file
// 3. Default values (lowest priority)
// Command-line flags are applied on top by the caller.
func Resolve(file *FileConfig) (*Settings, error) {
	s := Defaults()

	if file != nil {
		if file.Crawl.StartID != nil {
			s.StartID = *file.Crawl.StartID
		}
		if file.Crawl.EndID != nil {
			s.EndID = *file.Crawl.EndID
		}
		if file.Crawl.RespectRobots != nil {
			s.RespectRobots = *file.Crawl.RespectRobots
		}
		if file.Output.Path != "" {
			s.OutputPath = file.Output.Path
		}
		if file.Store.Type != "" {
			s.StoreType = file.Store.Type
		}
		if file.Store.DSN != "" {
			s.StoreDSN = file.Store.DSN
		}
		if file.Log.Level != "" {
			s.LogLevel = file.Log.Level
		}
		if file.Log.Format != "" {
			s.LogFormat = file.Log.Format
		}
	}

	if err := envInt("PROSEFED_START_ID", &s.StartID); err != nil {
		return nil, err
	}
	if err := envInt("PROSEFED_END_ID", &s.EndID); err != nil {
		return nil, err
	}
	if val := os.Getenv("PROSEFED_RESPECT_ROBOTS"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PROSEFED_RESPECT_ROBOTS: %w", err)
		}
		s.RespectRobots = b
	}
	if val := os.Getenv("PROSEFED_OUTPUT"); val != "" {
		s.OutputPath = val
	}
	if val := os.Getenv("PROSEFED_STORE_TYPE"); val != "" {
		s.StoreType = val
	}
	if val := os.Getenv("PROSEFED_STORE_DSN"); val != "" {
		s.StoreDSN = val
	}
	if val := os.Getenv("PROSEFED_LOG_LEVEL"); val != "" {
		s.LogLevel = val
	}
	if val := os.Getenv("PROSEFED_LOG_FORMAT"); val != "" {
		s.LogFormat = val
	}

	return s, nil
}

// Validate checks the enumerated options. An empty id range is allowed.
func (s *Settings) Validate() error {
	s.StoreType = strings.ToLower(s.StoreType)
	if s.StoreType != StoreNone && s.StoreType != StoreSQLite {
		return fmt.Errorf("%w, got %q", ErrInvalidStoreType, s.StoreType)
	}

	s.LogFormat = strings.ToLower(s.LogFormat)
	if s.LogFormat != LogFormatText && s.LogFormat != LogFormatJSON {
		return fmt.Errorf("%w, got %q", ErrInvalidLogFormat, s.LogFormat)
	}

	if s.OutputPath == "" {
		return errors.New("output path must not be empty")
	}

	return nil
}

func envInt(key string, dst *int) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}

	*dst = n
	return nil
}
