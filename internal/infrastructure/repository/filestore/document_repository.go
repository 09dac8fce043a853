package filestore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/laliga-scout/internal/domain/document"
	"github.com/riskibarqy/laliga-scout/internal/platform/jsoncodec"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// DocumentRepository stores each document as <root>/<namespace>/<name>.json.
type DocumentRepository struct {
	root string
}

func NewDocumentRepository(root string) *DocumentRepository {
	return &DocumentRepository{root: filepath.Clean(root)}
}

func (r *DocumentRepository) Root() string {
	return r.root
}

func (r *DocumentRepository) Exists(_ context.Context, key document.Key) (bool, error) {
	path, err := r.path(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.Mode().IsRegular(), nil
	case crerr.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, crerr.Wrapf(err, "stat %s", key)
	}
}

func (r *DocumentRepository) Read(_ context.Context, key document.Key, target any) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if crerr.Is(err, fs.ErrNotExist) {
			return crerr.Wrapf(document.ErrNotFound, "read %s", key)
		}
		return crerr.Wrapf(err, "read %s", key)
	}

	if err := jsoncodec.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(document.ErrCorrupt, "decode %s: %v", key, err)
	}
	return nil
}

// Write replaces the document through a temp file and rename, so readers never
// observe a partially written file.
func (r *DocumentRepository) Write(_ context.Context, key document.Key, value any) error {
	path, err := r.path(key)
	if err != nil {
		return err
	}

	raw, err := jsoncodec.Marshal(value)
	if err != nil {
		return crerr.Wrapf(err, "encode %s", key)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return crerr.Wrapf(err, "create directory for %s", key)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return crerr.Wrapf(err, "create temp file for %s", key)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write %s", key)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "chmod %s", key)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", key)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return crerr.Wrapf(err, "replace %s", key)
	}
	return nil
}

func (r *DocumentRepository) path(key document.Key) (string, error) {
	if !key.Valid() {
		return "", crerr.Newf("invalid document key %q", key)
	}
	return filepath.Join(r.root, string(key.Namespace), key.Name+".json"), nil
}
