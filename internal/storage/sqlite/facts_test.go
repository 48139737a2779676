// ABOUTME: Tests for fact storage operations
// ABOUTME: Verifies append-only inserts and newest-first reads
package sqlite

import (
	"testing"
	"time"

	"github.com/harper/nova/internal/models"
)

func TestFactAppendAndByKey(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewFactStore(db)

	first := &models.Fact{Subject: "Mom", Key: "Birthday", Value: "June 4"}
	if err := store.Append(first); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if first.ID == 0 {
		t.Error("Append() should set ID")
	}

	second := &models.Fact{Subject: "mom", Key: "birthday", Value: "June 5"}
	if err := store.Append(second); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	facts, err := store.ByKey("MOM", "birthday")
	if err != nil {
		t.Fatalf("ByKey() error = %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("ByKey() returned %d facts, want 2", len(facts))
	}
	if facts[0].Value != "June 5" {
		t.Errorf("newest Value = %v, want June 5", facts[0].Value)
	}
	if facts[0].Subject != "mom" || facts[0].Key != "birthday" {
		t.Errorf("stored subject/key = %v/%v, want mom/birthday", facts[0].Subject, facts[0].Key)
	}
}

func TestFactByKeyCap(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewFactStore(db)
	for i := 0; i < MaxFactsByKey+5; i++ {
		if err := store.Append(&models.Fact{Subject: "me", Key: "city", Value: "x"}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	facts, err := store.ByKey("me", "city")
	if err != nil {
		t.Fatalf("ByKey() error = %v", err)
	}
	if len(facts) != MaxFactsByKey {
		t.Errorf("ByKey() returned %d facts, want %d", len(facts), MaxFactsByKey)
	}
}

func TestFactLatest(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewFactStore(db)

	missing, err := store.Latest("me", "name")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if missing != nil {
		t.Error("Latest() should return nil for missing key")
	}

	_ = store.Append(&models.Fact{Subject: "me", Key: "name", Value: "Kee", CreatedAt: time.Now().Add(-time.Hour)})
	_ = store.Append(&models.Fact{Subject: "me", Key: "name", Value: "Keerthi"})

	latest, err := store.Latest("me", "name")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest == nil || latest.Value != "Keerthi" {
		t.Errorf("Latest() = %+v, want Keerthi", latest)
	}
}

func TestFactAllAndLatestPerKey(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewFactStore(db)
	_ = store.Append(&models.Fact{Subject: "me", Key: "name", Value: "Kee"})
	_ = store.Append(&models.Fact{Subject: "me", Key: "color", Value: "blue"})
	_ = store.Append(&models.Fact{Subject: "me", Key: "name", Value: "Keerthi"})
	_ = store.Append(&models.Fact{Subject: "dad", Key: "phone", Value: "555"})

	all, err := store.All("me", 2)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("All() returned %d facts, want 2", len(all))
	}
	if all[0].Value != "Keerthi" || all[1].Value != "blue" {
		t.Errorf("All() order = %v, %v; want Keerthi, blue", all[0].Value, all[1].Value)
	}

	latest, err := store.LatestPerKey()
	if err != nil {
		t.Fatalf("LatestPerKey() error = %v", err)
	}
	if len(latest) != 3 {
		t.Fatalf("LatestPerKey() returned %d facts, want 3", len(latest))
	}
	for _, f := range latest {
		if f.Key == "name" && f.Value != "Keerthi" {
			t.Errorf("LatestPerKey() name = %v, want Keerthi", f.Value)
		}
	}

	n, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 4 {
		t.Errorf("Count() = %d, want 4", n)
	}
}

func TestFactAppendRejectsInvalidKey(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	store := NewFactStore(db)

	if err := store.Append(&models.Fact{Subject: "me", Key: "phone number", Value: "555"}); err == nil {
		t.Error("Append() should reject a key with a space")
	}
	if err := store.Append(&models.Fact{Subject: "me", Key: "Phone_2", Value: "555"}); err != nil {
		t.Errorf("Append() error = %v", err)
	}
}
