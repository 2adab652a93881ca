package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileKVSuffix = ".json"

// FilesKV stores each key as <dir>/<key>.json. Writes go through a temp file
// and rename so a crash never leaves a half-written value behind.
type FilesKV struct {
	Dir string
}

func OpenFiles(dir string) (*FilesKV, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("files backend: missing dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FilesKV{Dir: dir}, nil
}

func (f *FilesKV) path(key string) string {
	return filepath.Join(f.Dir, key+fileKVSuffix)
}

func (f *FilesKV) Get(_ context.Context, key string) (string, bool, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

func (f *FilesKV) Set(_ context.Context, key, value string) error {
	return atomicWriteFile(f.Dir, key+fileKVSuffix+".*.tmp", f.path(key), []byte(value), 0o644)
}

func (f *FilesKV) Keys(_ context.Context) ([]string, error) {
	ents, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileKVSuffix) {
			continue
		}
		out = append(out, strings.TrimSuffix(name, fileKVSuffix))
	}
	sort.Strings(out)
	return out, nil
}

func (f *FilesKV) Close() error { return nil }
