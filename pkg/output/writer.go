package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Writer persists one track document per device under a shared directory.
// Concurrent device pipelines never contend: each device has its own path,
// and writes go through a temp file plus rename so readers (the
// republisher serves this directory) never see a torn document.
type Writer struct {
	dir string
}

// NewWriter ensures the output directory exists.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Path returns the document location for a device.
func (w *Writer) Path(deviceID string) string {
	return filepath.Join(w.dir, sanitize(deviceID)+".json")
}

// WriteDocument serializes the feature collection to the device's path.
// An empty collection is still written: "no track" is a valid document.
func (w *Writer) WriteDocument(deviceID string, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("failed to marshal track document: %w", err)
	}

	final := w.Path(deviceID)
	tmp, err := os.CreateTemp(w.dir, ".tmp-"+sanitize(deviceID)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write track document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move track document into place: %w", err)
	}
	return nil
}

// sanitize keeps device identifiers from escaping the output directory.
func sanitize(deviceID string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", string(os.PathSeparator), "_")
	s := replacer.Replace(deviceID)
	if s == "" {
		s = "_"
	}
	return s
}
