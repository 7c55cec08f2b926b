// Package content loads module records from the content service or local files.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuicast/internal/model"
)

const (
	// DefaultTimeout bounds a content service request.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxBytes bounds a module record body.
	DefaultMaxBytes = 10_000_000
	userAgent       = "tuicast/1.0"
)

var (
	// ErrNotFound is returned when the content service has no such module.
	ErrNotFound = errors.New("content not found")
	// ErrTooLarge is returned when a record exceeds DefaultMaxBytes.
	ErrTooLarge = errors.New("module record too large")
)

// Load reads a module record from an http(s) URL or a local .json/.yaml file.
func Load(ctx context.Context, source string) (model.ModuleRecord, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return model.ModuleRecord{}, fmt.Errorf("source is empty")
	}
	if isRemote(source) {
		return Fetch(ctx, source)
	}
	return LoadFile(source)
}

// BaseDir returns the directory relative audio locators resolve against.
func BaseDir(source string) string {
	if isRemote(source) {
		return ""
	}
	return filepath.Dir(source)
}

// Fetch downloads a JSON module record.
func Fetch(ctx context.Context, rawURL string) (model.ModuleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return model.ModuleRecord{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return model.ModuleRecord{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return model.ModuleRecord{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return model.ModuleRecord{}, fmt.Errorf("unexpected content status: %s", resp.Status)
	}
	if resp.ContentLength > DefaultMaxBytes {
		return model.ModuleRecord{}, ErrTooLarge
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBytes+1))
	if err != nil {
		return model.ModuleRecord{}, fmt.Errorf("failed to read module record: %w", err)
	}
	if len(body) > DefaultMaxBytes {
		return model.ModuleRecord{}, ErrTooLarge
	}
	return decodeJSON(body)
}

// LoadFile reads a module record from disk, choosing the decoder by extension.
func LoadFile(path string) (model.ModuleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ModuleRecord{}, ErrNotFound
		}
		return model.ModuleRecord{}, fmt.Errorf("failed to read module record: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) (model.ModuleRecord, error) {
	var rec model.ModuleRecord
	if len(bytes.TrimSpace(data)) == 0 {
		return rec, fmt.Errorf("module record is empty")
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.ModuleRecord{}, fmt.Errorf("failed to decode module record: %w", err)
	}
	return rec, nil
}

func decodeYAML(data []byte) (model.ModuleRecord, error) {
	var rec model.ModuleRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return model.ModuleRecord{}, fmt.Errorf("failed to decode module record: %w", err)
	}
	return rec, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
