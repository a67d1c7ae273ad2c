// Package session serializes a profile's products and session log as a
// flat snapshot document. The round-trip is lossless: importing an
// exported snapshot reproduces the original records exactly.
package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmorrow/coalens/internal/product"
)

// #region snapshot

// Snapshot is the top-level export/import structure.
type Snapshot struct {
	ProfileName string                    `json:"profile_name"`
	Products    []product.Product         `json:"products"`
	SessionLog  []product.SessionLogEntry `json:"session_log"`
}

// #endregion snapshot

// #region codec

// Export serializes a snapshot as indented JSON.
func Export(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	return data, nil
}

// Import parses snapshot JSON.
func Import(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("import snapshot: %w", err)
	}
	return s, nil
}

// #endregion codec

// #region files

// Save writes a snapshot to path.
func Save(path string, s Snapshot) error {
	data, err := Export(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads and parses a snapshot file.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return Import(data)
}

// #endregion files
