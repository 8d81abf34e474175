package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cesop-report/cesop/internal/uuidsrc"
)

// WriteFile renders p and writes it to dir/p.FileName(), following spec §5's
// resource-scoping rule: the file is opened, written fully, fsynced, and
// closed before the next begins; on any error the partial file is removed
// before the error propagates.
func WriteFile(dir string, p Partition, src uuidsrc.Source) (path string, err error) {
	doc, err := Document(p, src)
	if err != nil {
		return "", err
	}

	path = filepath.Join(dir, p.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("render: open %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	if err = WriteTo(doc, f); err != nil {
		return "", err
	}
	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("render: fsync %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("render: close %s: %w", path, err)
	}
	return path, nil
}
