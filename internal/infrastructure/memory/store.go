// Package memory implementa repository.CollectionStore en memoria (tests y desarrollo).
package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/record"
)

var _ repository.CollectionStore = (*Store)(nil)

type collection struct {
	order   []string
	records map[string]json.RawMessage
}

// Store store de documentos en memoria; conserva el orden de creación.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewStore crea un store vacío con todas las colecciones conocidas.
func NewStore() *Store {
	s := &Store{collections: make(map[string]*collection, len(repository.Collections))}
	for _, name := range repository.Collections {
		s.collections[name] = &collection{records: make(map[string]json.RawMessage)}
	}
	return s
}

func (s *Store) get(name string) (*collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, domain.ErrUnknownCollection
	}
	return c, nil
}

func (s *Store) ListAll(_ context.Context, name string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, slices.Clone(c.records[id]))
	}
	return out, nil
}

func (s *Store) GetByID(_ context.Context, name, id string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	raw, ok := c.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(raw), nil
}

func (s *Store) Create(_ context.Context, name string, payload any) (json.RawMessage, error) {
	id, raw, err := record.Prepare(payload)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	c.put(id, raw)
	return slices.Clone(raw), nil
}

// Replace upsert del registro completo.
func (s *Store) Replace(_ context.Context, name, id string, rec any) (json.RawMessage, error) {
	raw, err := record.PrepareReplace(id, rec)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	c.put(id, raw)
	return slices.Clone(raw), nil
}

// Delete es idempotente.
func (s *Store) Delete(_ context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.get(name)
	if err != nil {
		return err
	}
	if _, ok := c.records[id]; ok {
		delete(c.records, id)
		c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
	}
	return nil
}

func (s *Store) ReplaceCollection(_ context.Context, name string, records any) ([]json.RawMessage, error) {
	entries, err := record.PrepareCollection(records)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	c.order = nil
	c.records = make(map[string]json.RawMessage, len(entries))
	for _, e := range entries {
		c.put(e.ID, e.Body)
	}
	return record.Bodies(entries), nil
}

func (c *collection) put(id string, raw json.RawMessage) {
	if _, exists := c.records[id]; !exists {
		c.order = append(c.order, id)
	}
	c.records[id] = raw
}
