package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/discochess/lzwpack/internal/store"
)

// ManifestName is the artifact the manifest is stored under.
const ManifestName = "manifest.json"

// ManifestVersion is the current manifest format version.
const ManifestVersion = 1

// Manifest describes one archive run.
type Manifest struct {
	Version     int       `json:"version"`
	Codec       string    `json:"codec"`
	Suffix      string    `json:"suffix"`
	CreatedAt   time.Time `json:"created_at"`
	InputBytes  int64     `json:"input_bytes"`
	OutputBytes int64     `json:"output_bytes"`
	Entries     []Entry   `json:"entries"`
}

// Entry describes one compressed artifact.
type Entry struct {
	Name        string  `json:"name"`
	Output      string  `json:"output"`
	InputBytes  int     `json:"input_bytes"`
	OutputBytes int     `json:"output_bytes"`
	Ratio       float64 `json:"ratio"`
	// Checksum is the xxhash64 of the original bytes in hex.
	Checksum string `json:"xxhash64"`
}

// Ratio returns the overall compression ratio of the run.
func (m *Manifest) Ratio() float64 {
	return ratio(m.InputBytes, m.OutputBytes)
}

// WriteManifest stores the manifest as indented JSON.
func WriteManifest(ctx context.Context, st store.Store, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := st.Write(ctx, ManifestName, data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest from the store.
func ReadManifest(ctx context.Context, st store.Store) (*Manifest, error) {
	data, err := st.Read(ctx, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	return &m, nil
}

func ratio(in, out int64) float64 {
	if out == 0 {
		return 0
	}
	return float64(in) / float64(out)
}
