// Package filestore is the local fallback backend. Each collection is one JSON array file
// under the store directory, read in full and rewritten in full on every mutation.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hilamalka1/onboard-api/internal/models"
)

// Store serialises access to every collection file in dir.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// Open prepares dir, creating it when missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func readFile[T any](s *Store, name string) ([]T, error) {
	raw, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	items := []T{}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return items, nil
}

// writeFile replaces the collection file atomically via rename.
func writeFile[T any](s *Store, name string, items []T) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// uniqueKey names a field whose normalised value must be unique across a collection.
type uniqueKey[T any] struct {
	field string
	value func(T) string
}

// collection binds an entity type to its file and key accessors.
type collection[T any] struct {
	store  *Store
	name   string
	id     func(*T) *string
	stamps func(*T) (created, updated *time.Time)
	unique []uniqueKey[T]
}

func (c *collection[T]) all(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return readFile[T](c.store, c.name)
}

func (c *collection[T]) first(ctx context.Context, match func(T) bool) (*T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(items[i]) {
			return &items[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (c *collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	return c.first(ctx, func(item T) bool { return *c.id(&item) == id })
}

func (c *collection[T]) exists(ctx context.Context, field, value, excludeID string) (bool, error) {
	var key *uniqueKey[T]
	for i := range c.unique {
		if c.unique[i].field == field {
			key = &c.unique[i]
		}
	}
	if key == nil {
		return false, fmt.Errorf("%s has no unique field %s", c.name, field)
	}
	items, err := c.all(ctx)
	if err != nil {
		return false, err
	}
	want := normalise(value)
	for i := range items {
		if *c.id(&items[i]) == excludeID {
			continue
		}
		if key.value(items[i]) == want {
			return true, nil
		}
	}
	return false, nil
}

// conflict reports the first unique field of item already used by another record.
func (c *collection[T]) conflict(items []T, item *T) error {
	id := *c.id(item)
	for _, key := range c.unique {
		v := key.value(*item)
		if v == "" {
			continue
		}
		for i := range items {
			if *c.id(&items[i]) != id && key.value(items[i]) == v {
				return &models.DuplicateKeyError{Field: key.field}
			}
		}
	}
	return nil
}

// create checks uniqueness and appends inside one critical section.
func (c *collection[T]) create(ctx context.Context, item *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	idPtr := c.id(item)
	if *idPtr == "" {
		*idPtr = uuid.NewString()
	}
	created, updated := c.stamps(item)
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	items, err := readFile[T](c.store, c.name)
	if err != nil {
		return err
	}
	if err := c.conflict(items, item); err != nil {
		return fmt.Errorf("create %s: %w", c.name, err)
	}
	for i := range items {
		if *c.id(&items[i]) == *idPtr {
			return fmt.Errorf("create %s: %w", c.name, &models.DuplicateKeyError{Field: "id"})
		}
	}
	return writeFile(c.store, c.name, append(items, *item))
}

func (c *collection[T]) update(ctx context.Context, item *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, updated := c.stamps(item)
	*updated = time.Now().UTC()

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	items, err := readFile[T](c.store, c.name)
	if err != nil {
		return err
	}
	id := *c.id(item)
	for i := range items {
		if *c.id(&items[i]) != id {
			continue
		}
		if err := c.conflict(items, item); err != nil {
			return fmt.Errorf("update %s: %w", c.name, err)
		}
		items[i] = *item
		return writeFile(c.store, c.name, items)
	}
	return models.ErrNotFound
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	items, err := readFile[T](c.store, c.name)
	if err != nil {
		return err
	}
	for i := range items {
		if *c.id(&items[i]) == id {
			return writeFile(c.store, c.name, append(items[:i], items[i+1:]...))
		}
	}
	return models.ErrNotFound
}

func normalise(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// paginate slices items to the requested page.
func paginate[T any](items []T, page, size int) []T {
	page, size = models.NormalizePage(page, size)
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func descending(order string) bool {
	return strings.EqualFold(order, "desc")
}

func containsFold(term string, values ...string) bool {
	term = strings.ToLower(term)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
