package store

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWriteSnapshot_KeepsNewestAndRestores(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	kv := NewMemory()
	mustSet(t, kv, TemplateKey, `{"others":["Batteries"]}`)
	mustSet(t, kv, StateKey, `{"others":[{"text":"Batteries","crossed":true}]}`)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var last string
	for i := 0; i < snapshotKeep+3; i++ {
		p, err := WriteSnapshot(ctx, kv, dir, base.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("WriteSnapshot #%d: %v", i, err)
		}
		last = p
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(ents) != snapshotKeep {
		t.Fatalf("expected %d snapshots kept; got %d", snapshotKeep, len(ents))
	}

	snap, err := ReadSnapshot(last)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(snap.Values) != 2 {
		t.Fatalf("expected 2 keys in snapshot; got %v", snap.Values)
	}

	other := NewMemory()
	if err := RestoreSnapshot(ctx, other, snap); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if got := mustGet(t, other, StateKey); got != snap.Values[StateKey] {
		t.Fatalf("restored state = %s", got)
	}
}
