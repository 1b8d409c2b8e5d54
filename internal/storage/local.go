package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Local stores payloads as files under a base directory. Writes are
// atomic: content lands in a uniquely named temp file first and is renamed
// into place, so readers never observe partial payloads.
type Local struct {
	base string
}

// NewLocal creates the base directory if needed and returns a local store
// rooted there.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("local storage: resolve base dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: create base dir: %w", err)
	}
	return &Local{base: abs}, nil
}

// BaseDir returns the absolute base directory.
func (l *Local) BaseDir() string {
	return l.base
}

// resolve maps a storage key to an absolute path, rejecting keys that
// would escape the base directory.
func (l *Local) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("local storage: empty storage key")
	}
	rel := filepath.FromSlash(key)
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("local storage: key %q must be relative", key)
	}
	full := filepath.Join(l.base, rel)
	if full != l.base && !strings.HasPrefix(full, l.base+string(filepath.Separator)) {
		return "", fmt.Errorf("local storage: key %q escapes base directory", key)
	}
	return full, nil
}

// Save writes content under the key atomically and returns the key in
// slash form. An empty key falls back to "{sha256}.zip" at the base
// directory root, preserved for compatibility with data written before
// locators existed.
func (l *Local) Save(ctx context.Context, key string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if key == "" {
		sum := sha256.Sum256(content)
		key = hex.EncodeToString(sum[:]) + ".zip"
	}

	full, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("save %s: %w", key, err)
	}

	tmp := full + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", key, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("save %s: %w", key, err)
	}
	return key, nil
}

// Load returns the bytes under the key.
func (l *Local) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return content, nil
}

// Exists reports whether the key has an object.
func (l *Local) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	full, err := l.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the object under the key.
func (l *Local) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, ErrNotFound)
	} else if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// List returns all keys under the prefix, sorted. Temp files from
// in-flight writes are excluded.
func (l *Local) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(l.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || strings.HasSuffix(path, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(l.base, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}
