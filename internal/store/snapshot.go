package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	snapshotPrefix = "snapshot-"
	snapshotKeep   = 5
)

type Snapshot struct {
	CreatedAt time.Time         `json:"createdAt"`
	Values    map[string]string `json:"values"`
}

// WriteSnapshot copies every key of kv into dir/snapshot-<time>.json and prunes
// all but the newest few snapshots. It only reads from kv.
func WriteSnapshot(ctx context.Context, kv KV, dir string, now time.Time) (string, error) {
	keys, err := kv.Keys(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot: list keys: %w", err)
	}
	snap := Snapshot{CreatedAt: now.UTC(), Values: map[string]string{}}
	for _, k := range keys {
		v, ok, err := kv.Get(ctx, k)
		if err != nil {
			return "", fmt.Errorf("snapshot: read %s: %w", k, err)
		}
		if ok {
			snap.Values[k] = v
		}
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := snapshotPrefix + now.UTC().Format("20060102T150405.000000000Z") + ".json"
	path := filepath.Join(dir, name)
	if err := atomicWriteFile(dir, name+".*.tmp", path, b, 0o644); err != nil {
		return "", err
	}
	if err := pruneSnapshots(dir, snapshotKeep); err != nil {
		return path, err
	}
	return path, nil
}

func pruneSnapshots(dir string, keep int) error {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range ents {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, snapshotPrefix) && strings.HasSuffix(n, ".json") {
			names = append(names, n)
		}
	}
	if len(names) <= keep {
		return nil
	}
	// Timestamps sort lexicographically.
	sort.Strings(names)
	for _, n := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, n)); err != nil {
			return err
		}
	}
	return nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// RestoreSnapshot writes every value of snap back into kv, overwriting
// current values. Keys absent from the snapshot are left alone.
func RestoreSnapshot(ctx context.Context, kv KV, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("restore: nil snapshot")
	}
	keys := make([]string, 0, len(snap.Values))
	for k := range snap.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := kv.Set(ctx, k, snap.Values[k]); err != nil {
			return &WriteError{Key: k, Err: err}
		}
	}
	return nil
}
