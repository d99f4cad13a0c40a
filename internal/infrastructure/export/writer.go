// Package export writes the store configuration bundle to disk.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// Writer writes store.config.json bundles under a configured root.
type Writer struct {
	root string
	now  func() time.Time
}

var _ ports.Exporter = (*Writer)(nil)

// NewWriter builds a writer rooted at root.
func NewWriter(root string) *Writer {
	return &Writer{root: root, now: time.Now}
}

// Export writes <root>/<slug>-<YYYY-MM-DD>/store.config.json and returns the
// file path. Exporting twice on the same day overwrites the earlier bundle.
func (w *Writer) Export(meta domain.GeneratedMetadata, appName string) (string, error) {
	dir := filepath.Join(w.root, fmt.Sprintf("%s-%s", domain.Slugify(appName), w.now().Format("2006-01-02")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	doc := domain.BuildStoreConfig(meta)
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	raw = append(raw, '\n')

	path := filepath.Join(dir, "store.config.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
