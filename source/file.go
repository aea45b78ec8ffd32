package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/schema"
)

const lockRetry = 50 * time.Millisecond

// File reads the document from a local JSON or YAML file. Reads take a
// shared lock on "<path>.lock" so they never observe a half-written snapshot.
type File struct {
	Path string
}

func NewFile(path string) *File { return &File{Path: path} }

func (f *File) Name() string { return "file " + f.Path }

func (f *File) Document(ctx context.Context) (map[string]any, error) {
	if f.Path == "" {
		return nil, &lif.SourceError{Source: f.Name(), Err: fmt.Errorf("no file path configured")}
	}
	lock := flock.New(lockPath(f.Path))
	// An unwritable directory cannot hold the lock file; read unlocked then.
	ok, err := lock.TryRLockContext(ctx, lockRetry)
	if err != nil && ctx.Err() != nil {
		return nil, &lif.SourceError{Source: f.Name(), Err: ctx.Err()}
	}
	if ok {
		defer lock.Unlock()
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &lif.SourceError{Source: f.Name(), Err: err}
	}
	doc, err := schema.DecodeDocument(data)
	if err != nil {
		return nil, &lif.SourceError{Source: f.Name(), Err: err}
	}
	return doc, nil
}

// WriteSnapshot stores data at path under an exclusive lock, replacing the
// file atomically.
func WriteSnapshot(ctx context.Context, path string, data []byte) error {
	if _, err := schema.DecodeDocument(data); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	lock := flock.New(lockPath(path))
	if _, err := lock.TryLockContext(ctx, lockRetry); err != nil {
		return fmt.Errorf("snapshot %s: lock: %w", path, err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

func lockPath(path string) string { return path + ".lock" }
