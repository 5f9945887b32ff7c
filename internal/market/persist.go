package market

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ekato-labs/tradecore/internal/domain/market"
)

// FileStore persists the candle history as a single JSON document, rewritten
// wholesale after every tick. No incremental format, no schema versioning.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path, creating parent directories
// as needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted candle history. A missing file yields an empty
// history; a corrupt file is an error so the caller can decide to reset.
func (f *FileStore) Load() ([]market.Candle, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read candle file: %w", err)
	}

	var candles []market.Candle
	if err := json.Unmarshal(data, &candles); err != nil {
		return nil, fmt.Errorf("parse candle file: %w", err)
	}
	return candles, nil
}

// Save rewrites the whole candle document.
func (f *FileStore) Save(candles []market.Candle) error {
	data, err := json.MarshalIndent(candles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal candles: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write candle file: %w", err)
	}
	return nil
}
