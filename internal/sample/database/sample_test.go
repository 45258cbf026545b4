package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"intent/internal/database"
	"intent/internal/geom"
	"intent/internal/sample/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	b, err := bolt.Open(filepath.Join(t.TempDir(), "intent.db"), 0o600, nil)
	if err != nil {
		t.Fatalf("bolt.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = b.Close()
	})
	return New(&database.DB{DB: b})
}

func TestStoreAndFindByEntity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	samples := []model.Sample{
		model.NewSample("entity-a", geom.Point{45, 95000}, 1, base.Add(2*time.Minute), nil),
		model.NewSample("entity-a", geom.Point{22, 18000}, 0, base, nil),
		model.NewSample("entity-a", geom.Point{31, 41000}, 0, base.Add(time.Minute), nil),
		model.NewSample("entity-b", geom.Point{60, 140000}, 1, base, nil),
	}
	for _, s := range samples {
		if err := db.Store(ctx, s); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}

	got, err := db.FindByEntity("entity-a", nil)
	if err != nil {
		t.Fatalf("FindByEntity: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("FindByEntity len got: %v, expected: %v", len(got), 3)
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.Before(got[i-1].CreatedAt) {
			t.Errorf("FindByEntity not ordered by creation time: %v before %v", got[i].CreatedAt, got[i-1].CreatedAt)
		}
	}
	if got[0].Label != 0 || got[2].Label != 1 {
		t.Errorf("FindByEntity order got labels %v %v %v, expected 0 0 1", got[0].Label, got[1].Label, got[2].Label)
	}
}

func TestFindByEntityStableOnEqualTimes(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	batch := []model.Sample{
		model.NewSample("entity-a", geom.Point{20, 20000}, 0, at, nil),
		model.NewSample("entity-a", geom.Point{60, 140000}, 1, at, nil),
	}
	if err := db.AppendMany(ctx, batch); err != nil {
		t.Fatalf("AppendMany: %v", err)
	}

	first, err := db.FindByEntity("entity-a", nil)
	if err != nil {
		t.Fatalf("FindByEntity: %v", err)
	}
	second, err := db.FindByEntity("entity-a", nil)
	if err != nil {
		t.Fatalf("FindByEntity: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("FindByEntity order differs between reads at index %d", i)
		}
	}
}

func TestKeysAndCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now()
	if err := db.AppendMany(ctx, []model.Sample{
		model.NewSample("entity-a", geom.Point{30, 50000}, 1, now, nil),
		model.NewSample("entity-a", geom.Point{25, 30000}, 0, now, nil),
		model.NewSample("entity-b", geom.Point{50, 90000}, 1, now, nil),
	}); err != nil {
		t.Fatalf("AppendMany: %v", err)
	}

	keys, err := db.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("Keys len got: %v, expected: %v", len(keys), 2)
	}

	count, err := db.CountByEntity("entity-a")
	if err != nil {
		t.Fatalf("CountByEntity: %v", err)
	}
	if count != 2 {
		t.Errorf("CountByEntity got: %v, expected: %v", count, 2)
	}
}

func TestDeleteMany(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now()
	batch := []model.Sample{
		model.NewSample("entity-a", geom.Point{30, 50000}, 1, now, nil),
		model.NewSample("entity-a", geom.Point{25, 30000}, 0, now, nil),
		model.NewSample("entity-a", geom.Point{40, 70000}, 1, now, nil),
	}
	if err := db.AppendMany(ctx, batch); err != nil {
		t.Fatalf("AppendMany: %v", err)
	}

	if err := db.DeleteMany(ctx, batch[:2]); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}

	count, err := db.CountByEntity("entity-a")
	if err != nil {
		t.Fatalf("CountByEntity: %v", err)
	}
	if count != 1 {
		t.Errorf("CountByEntity after delete got: %v, expected: %v", count, 1)
	}
}

func TestFindAllWithFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now()
	if err := db.AppendMany(ctx, []model.Sample{
		model.NewSample("entity-a", geom.Point{30, 50000}, 1, now, nil),
		model.NewSample("entity-b", geom.Point{25, 30000}, 0, now, nil),
	}); err != nil {
		t.Fatalf("AppendMany: %v", err)
	}

	got, err := db.FindAll(ctx, func(sample model.Sample) bool {
		return sample.Label == 1
	})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(got) != 1 || got[0].EntityID != "entity-a" {
		t.Errorf("FindAll filtered got: %v, expected single entity-a sample", got)
	}
}
