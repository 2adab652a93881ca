package store

import (
	"context"
	"reflect"
	"testing"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, StateKey); err != nil || ok {
		t.Fatalf("Get(missing) = ok:%v err:%v", ok, err)
	}
	if err := kv.Set(ctx, StateKey, `{"a":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, StateKey, `{"b":2}`); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}
	if err := kv.Set(ctx, TemplateKey, `{}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := kv.Get(ctx, StateKey)
	if err != nil || !ok {
		t.Fatalf("Get = ok:%v err:%v", ok, err)
	}
	if v != `{"b":2}` {
		t.Fatalf("Get = %q, want full overwrite", v)
	}
	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{StateKey, TemplateKey}) {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestSQLiteKV(t *testing.T) {
	t.Parallel()
	kv, err := OpenSQLite(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := kv.Set(ctx, TemplateKey, `{"others":["Batteries"]}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	kv2, err := OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSQLite (reopen): %v", err)
	}
	defer kv2.Close()
	v, ok, err := kv2.Get(ctx, TemplateKey)
	if err != nil || !ok || v != `{"others":["Batteries"]}` {
		t.Fatalf("Get after reopen = %q ok:%v err:%v", v, ok, err)
	}
}

func TestFilesKV(t *testing.T) {
	t.Parallel()
	kv, err := OpenFiles(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFiles: %v", err)
	}
	exerciseKV(t, kv)
}

func TestMemoryKV(t *testing.T) {
	t.Parallel()
	exerciseKV(t, NewMemory())
}

func TestOpen_UnknownBackend(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), t.TempDir(), "redis"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
