// ABOUTME: Tests for the charm fact mirror using an in-memory KV
// ABOUTME: Verifies key layout, change detection, and sync behavior
package charm

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/harper/nova/internal/config"
	"github.com/harper/nova/internal/models"
)

type memKV struct {
	data   map[string][]byte
	syncs  int
	sets   int
	closed bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Set(key, value []byte) error {
	m.sets++
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (m *memKV) Keys() ([][]byte, error) {
	var keys [][]byte
	for k := range m.data {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

func (m *memKV) Sync() error  { m.syncs++; return nil }
func (m *memKV) Close() error { m.closed = true; return nil }

type staticFacts []models.Fact

func (s staticFacts) LatestFacts() []models.Fact { return s }

func TestFactKey(t *testing.T) {
	if got := FactKey(" Mom ", "Birthday"); got != "fact:mom:birthday" {
		t.Errorf("FactKey() = %q, want %q", got, "fact:mom:birthday")
	}
	if got := FactKey("", "name"); got != "fact:me:name" {
		t.Errorf("FactKey() = %q, want %q", got, "fact:me:name")
	}
}

func TestConfigFrom(t *testing.T) {
	c := ConfigFrom(nil)
	if c.Host == "" || c.DBName != "nova" {
		t.Errorf("ConfigFrom(nil) = %+v", c)
	}

	c = ConfigFrom(&config.Config{CharmHost: "charm.example.com", CharmDBName: "other"})
	if c.Host != "charm.example.com" || c.DBName != "other" {
		t.Errorf("ConfigFrom() = %+v", c)
	}
}

func TestPushFacts(t *testing.T) {
	db := newMemKV()
	m := NewMirror(db, nil, nil)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	facts := staticFacts{
		{Subject: "me", Key: "name", Value: "Ana", CreatedAt: now},
		{Subject: "mom", Key: "birthday", Value: "May 3", CreatedAt: now},
	}

	n, err := m.PushFacts(facts)
	if err != nil {
		t.Fatalf("PushFacts() error = %v", err)
	}
	if n != 2 {
		t.Errorf("PushFacts() wrote %d, want 2", n)
	}
	if db.syncs != 1 {
		t.Errorf("syncs = %d, want 1", db.syncs)
	}

	// unchanged facts are not rewritten and do not sync again
	n, err = m.PushFacts(facts)
	if err != nil {
		t.Fatalf("PushFacts() error = %v", err)
	}
	if n != 0 || db.syncs != 1 {
		t.Errorf("second push wrote %d with %d syncs, want 0 and 1", n, db.syncs)
	}

	facts[0].Value = "Ana Maria"
	n, _ = m.PushFacts(facts)
	if n != 1 {
		t.Errorf("changed push wrote %d, want 1", n)
	}

	mirrored, err := m.Facts()
	if err != nil {
		t.Fatalf("Facts() error = %v", err)
	}
	sort.Slice(mirrored, func(i, j int) bool { return mirrored[i].Subject < mirrored[j].Subject })
	if len(mirrored) != 2 || mirrored[0].Value != "Ana Maria" || mirrored[1].Key != "birthday" {
		t.Errorf("Facts() = %+v", mirrored)
	}
}

func TestFactsSkipsForeignKeys(t *testing.T) {
	db := newMemKV()
	db.data["profile:user"] = []byte(`{}`)
	db.data["fact:me:broken"] = []byte(`not json`)
	m := NewMirror(db, nil, nil)

	facts, err := m.Facts()
	if err != nil {
		t.Fatalf("Facts() error = %v", err)
	}
	if len(facts) != 0 {
		t.Errorf("Facts() = %+v, want none", facts)
	}
}

func TestMirrorClosed(t *testing.T) {
	db := newMemKV()
	m := NewMirror(db, nil, nil)

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !db.closed {
		t.Error("underlying kv not closed")
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := m.PushFacts(staticFacts{}); err == nil {
		t.Error("PushFacts() on closed mirror should fail")
	}
	if err := m.Sync(); err == nil {
		t.Error("Sync() on closed mirror should fail")
	}
}
