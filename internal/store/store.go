// SPDX-License-Identifier: MPL-2.0

// Package store holds the outcome of an ingestion run: resolved modules in
// load order and every parsed object, indexed for exact lookup and ranked
// search. A store is safe for concurrent use; ingestion workers insert
// while nothing reads, then the query surfaces read while nothing writes.
package store

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"rawdex/pkg/rawkind"
	"rawdex/pkg/rawmod"
	"rawdex/pkg/rawobj"
)

// DuplicateError rejects an insert whose (module, identifier) pair is
// already stored. The earlier object stays.
type DuplicateError struct {
	Key rawobj.Key
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("object %s:%s already stored", e.Key.Module, e.Key.Identifier)
}

// Store is the in-memory index over ingested modules and objects.
type Store struct {
	mu        sync.RWMutex
	modules   []*rawmod.Module
	moduleIdx map[string]int
	objects   []*rawobj.Object
	byKey     map[rawobj.Key]*rawobj.Object
	byUID     map[uuid.UUID]*rawobj.Object
}

// New returns an empty store.
func New() *Store {
	return &Store{
		moduleIdx: make(map[string]int),
		byKey:     make(map[rawobj.Key]*rawobj.Object),
		byUID:     make(map[uuid.UUID]*rawobj.Object),
	}
}

// SetModules records the resolved modules in load order. The order decides
// how category scans and exports sort objects.
func (s *Store) SetModules(mods []*rawmod.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules = slices.Clone(mods)
	s.moduleIdx = make(map[string]int, len(mods))
	for i, m := range mods {
		s.moduleIdx[m.ID] = i
	}
}

// Modules returns the stored modules in load order.
func (s *Store) Modules() []*rawmod.Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.modules)
}

// Module looks a module up by identifier.
func (s *Store) Module(id string) (*rawmod.Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.moduleIdx[id]
	if !ok {
		return nil, false
	}
	return s.modules[i], true
}

// Insert stores one object. A key collision returns a DuplicateError and
// keeps the earlier object.
func (s *Store) Insert(obj *rawobj.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := obj.Key()
	if _, ok := s.byKey[key]; ok {
		return &DuplicateError{Key: key}
	}
	s.byKey[key] = obj
	s.byUID[obj.UID] = obj
	s.objects = append(s.objects, obj)
	return nil
}

// InsertBatch stores every object it can and returns one error per
// rejected duplicate. A rejection never stops the batch.
func (s *Store) InsertBatch(objs []*rawobj.Object) []error {
	var errs []error
	for _, o := range objs {
		if err := s.Insert(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Lookup returns the object stored under a (module, identifier) pair.
func (s *Store) Lookup(module, identifier string) (*rawobj.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byKey[rawobj.Key{Module: module, Identifier: identifier}]
	return o, ok
}

// LookupUID returns the object with the given stable id.
func (s *Store) LookupUID(id uuid.UUID) (*rawobj.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byUID[id]
	return o, ok
}

// Category returns every object of one category, module load order first,
// then source file and line.
func (s *Store) Category(c rawkind.Category) []*rawobj.Object {
	return s.collect(Query{Categories: []rawkind.Category{c}})
}

// All returns every stored object in load order.
func (s *Store) All() []*rawobj.Object {
	return s.collect(Query{})
}

// Export is the persisted form of a completed run.
type Export struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Modules     []*rawmod.Module `json:"modules"`
	Objects     []*rawobj.Object `json:"objects"`
}

// Export snapshots the store for serialization, objects in load order.
func (s *Store) Export() *Export {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objs := slices.Clone(s.objects)
	s.sortLoadOrder(objs)
	return &Export{
		GeneratedAt: time.Now().UTC(),
		Modules:     slices.Clone(s.modules),
		Objects:     objs,
	}
}

// WriteJSON writes the export document, indented for diffing.
func (s *Store) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Export()); err != nil {
		return fmt.Errorf("encoding store export: %w", err)
	}
	return nil
}

// ReadJSON loads an export document written by WriteJSON into a fresh
// store, so query surfaces can run over a past ingestion without
// re-scanning the sources.
func ReadJSON(r io.Reader) (*Store, error) {
	var doc Export
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding store export: %w", err)
	}

	s := New()
	s.SetModules(doc.Modules)
	for _, obj := range doc.Objects {
		if err := s.Insert(obj); err != nil {
			return nil, fmt.Errorf("loading store export: %w", err)
		}
	}
	return s, nil
}

func (s *Store) loadIndex(module string) int {
	if i, ok := s.moduleIdx[module]; ok {
		return i
	}
	return len(s.moduleIdx)
}

// sortLoadOrder orders objects by module load order, then source file,
// then line. Callers hold at least a read lock.
func (s *Store) sortLoadOrder(objs []*rawobj.Object) {
	slices.SortStableFunc(objs, func(a, b *rawobj.Object) int {
		if c := cmp.Compare(s.loadIndex(a.Module), s.loadIndex(b.Module)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.SourceFile, b.SourceFile); c != 0 {
			return c
		}
		return cmp.Compare(a.Line, b.Line)
	})
}
