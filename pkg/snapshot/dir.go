package snapshot

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirStore writes frames as files below a root directory.
type DirStore struct {
	root   string
	prefix string
}

// NewDirStore creates root if needed.
func NewDirStore(root, prefix string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, storeError("mkdir", root, err)
	}
	return &DirStore{root: root, prefix: prefix}, nil
}

func (d *DirStore) path(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(d.prefix+key))
}

// Put implements Store.
func (d *DirStore) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return storeError("put", key, err)
	}
	p := d.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return storeError("put", key, err)
	}

	// Write then rename so readers never see a partial frame.
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return storeError("put", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return storeError("put", key, err)
	}
	return nil
}

// List implements Store. Keys are returned without the store prefix.
func (d *DirStore) List(ctx context.Context, prefix string) ([]string, error) {
	base := filepath.Join(d.root, filepath.FromSlash(d.prefix))
	var keys []string

	err := filepath.WalkDir(d.root, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() || strings.HasSuffix(p, ".tmp") {
			return nil
		}
		if !strings.HasPrefix(p, base) {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		key := strings.TrimPrefix(filepath.ToSlash(rel), d.prefix)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, storeError("list", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}
