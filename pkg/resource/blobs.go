package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getmockd/apina/pkg/util"
)

// ErrUnsafeBlobPath is returned for blob names that escape the blob root.
var ErrUnsafeBlobPath = errors.New("unsafe blob path")

// Blobs stores the raw content of file: attributes.
type Blobs interface {
	ReadBlob(name string) ([]byte, error)
	WriteBlob(name string, data []byte) error
}

// DirBlobs keeps blobs as files under Root. Leading separators are
// trimmed from names and names may not climb out of Root.
type DirBlobs struct {
	Root string
}

// NewDirBlobs creates a DirBlobs rooted at root.
func NewDirBlobs(root string) DirBlobs {
	return DirBlobs{Root: root}
}

func (d DirBlobs) resolve(name string) (string, error) {
	rel, ok := util.SafeFilePath(strings.TrimLeft(name, `/\`))
	if !ok || rel == "." {
		return "", fmt.Errorf("%w: %q", ErrUnsafeBlobPath, name)
	}
	return filepath.Join(d.Root, rel), nil
}

// ReadBlob returns the content of blob name.
func (d DirBlobs) ReadBlob(name string) ([]byte, error) {
	p, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// WriteBlob replaces the content of blob name, creating directories as needed.
func (d DirBlobs) WriteBlob(name string, data []byte) error {
	p, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
