package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jmorrow/coalens/internal/product"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProduct(id string) product.Product {
	return product.Product{
		ID:      id,
		Name:    "Blue Dream",
		FormRaw: "Flower",
		FormKey: product.FormFlower,
		Metrics: product.Metrics{
			TotalThcPct:      product.FloatPtr(24.5),
			TotalTerpenesPct: product.FloatPtr(2.85),
		},
		Terpenes: []product.Terpene{
			{Name: "caryophyllene", Pct: 1.5},
			{Name: "limonene", Pct: 0.42},
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPutAndGetProduct(t *testing.T) {
	s := tempStore(t)
	want := sampleProduct("p1")

	if err := s.PutProduct(want); err != nil {
		t.Fatalf("PutProduct: %v", err)
	}

	got, ok, err := s.Get("p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected product to exist")
	}
	if got.Name != want.Name || got.FormKey != want.FormKey {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if *got.Metrics.TotalThcPct != 24.5 || *got.Metrics.TotalTerpenesPct != 2.85 {
		t.Fatalf("metrics mismatch: %+v", got.Metrics)
	}
	if len(got.Terpenes) != 2 || got.Terpenes[0].Pct != 1.5 {
		t.Fatalf("terpenes mismatch: %+v", got.Terpenes)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("created_at mismatch: %v != %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestGetMissingProduct(t *testing.T) {
	s := tempStore(t)
	_, ok, err := s.Get("nope")
	if err != nil {
		t.Fatalf("missing product must not be an error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false")
	}
}

func TestNullMetricsSurvive(t *testing.T) {
	s := tempStore(t)
	p := sampleProduct("p2")
	p.Metrics = product.Metrics{}
	p.FormRaw = ""
	p.FormKey = ""

	if err := s.PutProduct(p); err != nil {
		t.Fatalf("PutProduct: %v", err)
	}
	got, _, err := s.Get("p2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Metrics.TotalThcPct != nil || got.Metrics.TotalTerpenesPct != nil {
		t.Fatalf("nil metrics must stay nil: %+v", got.Metrics)
	}
	if got.FormRaw != "" || got.FormKey != "" {
		t.Fatalf("empty form must stay empty: %+v", got)
	}
}

func TestReplaceTerpenes(t *testing.T) {
	s := tempStore(t)
	if err := s.PutProduct(sampleProduct("p1")); err != nil {
		t.Fatalf("PutProduct: %v", err)
	}

	corrected := []product.Terpene{{Name: "myrcene", Pct: 0.9}}
	if err := s.ReplaceTerpenes("p1", corrected); err != nil {
		t.Fatalf("ReplaceTerpenes: %v", err)
	}
	got, _, err := s.Get("p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Terpenes) != 1 || got.Terpenes[0].Name != "myrcene" {
		t.Fatalf("terpene list not replaced: %+v", got.Terpenes)
	}

	if err := s.ReplaceTerpenes("ghost", corrected); err == nil {
		t.Fatal("expected error for unknown product")
	}
}

func TestSessionAppendAndList(t *testing.T) {
	s := tempStore(t)
	if err := s.PutProduct(sampleProduct("p1")); err != nil {
		t.Fatalf("PutProduct: %v", err)
	}

	first, err := s.AppendSession(product.SessionLogEntry{
		ProductID: "p1",
		Actuals:   map[string]float64{"sedation": 3.5, "head": 4},
		Notes:     "evening",
	})
	if err != nil {
		t.Fatalf("AppendSession: %v", err)
	}
	if first.ID == "" || first.At.IsZero() {
		t.Fatalf("append must mint ID and timestamp: %+v", first)
	}

	second, err := s.AppendSession(product.SessionLogEntry{
		ID:        "s2",
		At:        first.At.Add(time.Hour),
		ProductID: "p1",
		Actuals:   map[string]float64{"pain": 2},
	})
	if err != nil {
		t.Fatalf("AppendSession: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != first.ID || entries[1].ID != second.ID {
		t.Fatalf("append order lost: %+v", entries)
	}
	if entries[0].Actuals["sedation"] != 3.5 {
		t.Fatalf("actuals mismatch: %+v", entries[0].Actuals)
	}
	if entries[0].Notes != "evening" || entries[1].Notes != "" {
		t.Fatalf("notes mismatch: %+v", entries)
	}
}

func TestListProductsNewestFirst(t *testing.T) {
	s := tempStore(t)
	a := sampleProduct("a")
	a.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := sampleProduct("b")
	b.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for _, p := range []product.Product{a, b} {
		if err := s.PutProduct(p); err != nil {
			t.Fatalf("PutProduct: %v", err)
		}
	}
	got, err := s.ListProducts()
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("expected newest first, got %+v", got)
	}
}
