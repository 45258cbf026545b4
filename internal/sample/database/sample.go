package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"

	"intent/internal/database"
	"intent/internal/sample/model"
)

const (
	entityKeys = "entity:keys:"
	prefix     = "sample:"
)

type FilterFn func(sample model.Sample) bool

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) extractKey(key string) string {
	prefixPos := strings.Index(key, prefix)

	return key[prefixPos+len(prefix):]
}

func (db *DB) Keys() ([]string, error) {
	var bucketKeys []string
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(entityKeys))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			bucketKeys = append(bucketKeys, db.extractKey(string(k)))
		}
		return nil
	})

	return bucketKeys, err
}

func (db *DB) Store(_ context.Context, sample model.Sample) error {
	var b *bolt.Bucket
	bytes, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(prefix + sample.EntityID))
		if b == nil {
			b, err = tx.CreateBucket([]byte(prefix + sample.EntityID))
			if err != nil {
				return fmt.Errorf("create bucket: %w", err)
			}
		}
		if err := b.Put([]byte(sample.ID.String()), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		b = tx.Bucket([]byte(entityKeys))
		if b == nil {
			b, err = tx.CreateBucket([]byte(entityKeys))
			if err != nil {
				return fmt.Errorf("unable create entities bucket: %w", err)
			}
		}
		if err := b.Put([]byte(prefix+sample.EntityID), []byte{0x0}); err != nil {
			return fmt.Errorf("unable put to entities bucket: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

func (db *DB) AppendMany(_ context.Context, samples []model.Sample) error {
	var b *bolt.Bucket
	if err := db.sDB.DB.Batch(func(tx *bolt.Tx) error {
		for _, sample := range samples {
			b = tx.Bucket([]byte(prefix + sample.EntityID))
			if b == nil {
				entityBucket, err := tx.CreateBucket([]byte(prefix + sample.EntityID))
				if err != nil {
					return fmt.Errorf("create bucket: %w", err)
				}
				b = entityBucket
			}
			bytes, err := json.Marshal(sample)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(sample.ID.String()), bytes); err != nil {
				return fmt.Errorf("put to bucket error: %w", err)
			}
			b = tx.Bucket([]byte(entityKeys))
			if b == nil {
				keysBucket, err := tx.CreateBucket([]byte(entityKeys))
				if err != nil {
					return fmt.Errorf("unable create entities bucket: %w", err)
				}
				b = keysBucket
			}
			if err := b.Put([]byte(prefix+sample.EntityID), []byte{0x0}); err != nil {
				return fmt.Errorf("unable put to entities bucket: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

func (db *DB) DeleteMany(_ context.Context, samples []model.Sample) error {
	var b *bolt.Bucket
	if err := db.sDB.DB.Batch(func(tx *bolt.Tx) error {
		for _, sample := range samples {
			b = tx.Bucket([]byte(prefix + sample.EntityID))
			if b == nil {
				continue
			}
			if err := b.Delete([]byte(sample.ID.String())); err != nil {
				return fmt.Errorf("unable delete: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

func (db *DB) Delete(_ context.Context, sample model.Sample) error {
	var b *bolt.Bucket
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(prefix + sample.EntityID))
		if b == nil {
			return nil
		}

		return b.Delete([]byte(sample.ID.String()))
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

func (db *DB) FindAll(_ context.Context, filter FilterFn) ([]model.Sample, error) {
	var (
		keys    []string
		samples []model.Sample
	)
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(entityKeys))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, string(k))
		}

		for _, key := range keys {
			b := tx.Bucket([]byte(key))
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				var s model.Sample
				if err := json.Unmarshal(v, &s); err != nil {
					return fmt.Errorf("sample unmarshal error, %q", err)
				}
				samples = append(samples, s)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %v", err)
	}

	if filter == nil {
		return samples, nil
	}

	filtered := samples[:0]
	for _, x := range samples {
		if filter(x) {
			filtered = append(filtered, x)
		}
	}

	return filtered, nil
}

func (db *DB) CountByEntity(entityID string) (int, error) {
	var length int
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + entityID))
		if b == nil {
			length = 0
			return nil
		}
		stats := b.Stats()
		length = stats.KeyN
		return nil
	}); err != nil {
		return 0, fmt.Errorf("view transaction error: %v", err)
	}

	return length, nil
}

// FindByEntity returns the entity's samples in collection order: sorted by
// creation time, ties by ID. Bolt iterates by key (a UUID), so without the
// sort the training order would differ between runs and break the engine's
// determinism guarantees.
func (db *DB) FindByEntity(entityID string, filter FilterFn) ([]model.Sample, error) {
	var list []model.Sample
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + entityID))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var sample model.Sample
			if err := json.Unmarshal(v, &sample); err != nil {
				return fmt.Errorf("json unmarshal error, %q", err)
			}
			if filter == nil || filter(sample) {
				list = append(list, sample)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %v", err)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})

	return list, nil
}
