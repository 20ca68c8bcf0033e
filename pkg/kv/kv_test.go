package kv

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// storeTest exercises the Store contract against any implementation.
func storeTest(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, Key{"a", "1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, Key{"a", "1"}, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, Key{"a", "2"}, []byte("two")); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, Key{"ab", "1"}, []byte("other")); err != nil {
		t.Fatal(err)
	}

	v, err := store.Get(ctx, Key{"a", "1"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, []byte("one")) {
		t.Errorf("Get = %q, want one", v)
	}

	// Overwrite.
	if err := store.Set(ctx, Key{"a", "1"}, []byte("uno")); err != nil {
		t.Fatal(err)
	}
	v, _ = store.Get(ctx, Key{"a", "1"})
	if !bytes.Equal(v, []byte("uno")) {
		t.Errorf("Get after overwrite = %q, want uno", v)
	}

	// Prefix scan: ["a"] must not match ["ab", ...], and order is
	// lexicographic.
	var keys []string
	for e, err := range store.List(ctx, Key{"a"}) {
		if err != nil {
			t.Fatal(err)
		}
		keys = append(keys, e.Key.String())
	}
	if len(keys) != 2 || keys[0] != "a:1" || keys[1] != "a:2" {
		t.Errorf("List = %v, want [a:1 a:2]", keys)
	}

	if err := store.Delete(ctx, Key{"a", "1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, Key{"a", "1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted: err = %v, want ErrNotFound", err)
	}
	// Deleting an absent key is fine.
	if err := store.Delete(ctx, Key{"a", "1"}); err != nil {
		t.Errorf("Delete absent: %v", err)
	}

	if err := store.DeletePrefix(ctx, Key{"a"}); err != nil {
		t.Fatal(err)
	}
	for range store.List(ctx, Key{"a"}) {
		t.Fatal("List after DeletePrefix yielded entries")
	}
	if _, err := store.Get(ctx, Key{"ab", "1"}); err != nil {
		t.Errorf("sibling prefix was deleted: %v", err)
	}

	// Empty prefix clears everything.
	if err := store.DeletePrefix(ctx, nil); err != nil {
		t.Fatal(err)
	}
	for range store.List(ctx, nil) {
		t.Fatal("store not empty after full DeletePrefix")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	storeTest(t, store)
}

func TestKeyString(t *testing.T) {
	if got := (Key{"emb", "alice", "id"}).String(); got != "emb:alice:id" {
		t.Errorf("String = %q, want emb:alice:id", got)
	}
}

func TestListStopsEarly(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	for _, k := range []string{"1", "2", "3"} {
		if err := store.Set(ctx, Key{"a", k}, []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	n := 0
	for range store.List(ctx, Key{"a"}) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("yielded %d entries after break, want 1", n)
	}
}
