package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/driftcheck/driftcheck/internal/domain"
)

// Loader implements domain.SnapshotLoader for JSON snapshot exports.
type Loader struct{}

// New creates a Loader.
func New() *Loader { return &Loader{} }

// Load reads and parses the snapshot file at path.
func (l *Loader) Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Parse(data)
}

// Parse decodes snapshot JSON. Anything but a top-level object is a shape
// error, the one condition validation refuses to work around.
func (l *Loader) Parse(data []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing snapshot json: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &domain.InputShapeError{Input: "snapshot"}
	}
	return m, nil
}
