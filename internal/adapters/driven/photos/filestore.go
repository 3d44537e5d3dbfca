// Package photos stores attached photos as files on local disk.
package photos

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clearcoat-labs/detail-cli/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.PhotoStore = (*FileStore)(nil)

// FileStore writes photos into a flat directory. Filenames carry the
// entry id so purge can find a record's photos without a lookup table.
type FileStore struct {
	dir string

	// now supplies the timestamp component of filenames.
	now func() time.Time
}

// NewFileStore creates the directory if needed and returns a store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating photos directory: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory photos are written to.
func (f *FileStore) Dir() string {
	return f.dir
}

// Save writes one photo and returns the stored filename. The extension
// is taken from the original upload name.
func (f *FileStore) Save(entryID int64, index int, originalName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("entry_%d_%s_%d%s", entryID, f.now().Format("20060102_150405"), index, ext)

	if err := os.WriteFile(filepath.Join(f.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing photo %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes a stored photo. A missing file is not an error; the
// record may reference photos cleaned up out of band.
func (f *FileStore) Remove(filename string) error {
	err := os.Remove(filepath.Join(f.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing photo %s: %w", filename, err)
	}
	return nil
}
