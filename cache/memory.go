// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"container/list"
	"context"
	"errors"
	"sync"

	"github.com/escardin/rewrite/internal/singleflight"
	"github.com/escardin/rewrite/pom"
)

// entry holds one cached answer: either a payload or a recorded
// Unavailable. "Never looked up" is the absence of a map entry, keeping the
// three-way distinction between missing, negative, and present.
type entry[T any] struct {
	unavailable bool
	payload     T
	elem        *list.Element // position in the LRU list; nil if unbounded
}

// singleMap is one of MemoryCache's three independent stores: an outer
// mutex-guarded map plus a singleflight group so concurrent misses on the
// same key coalesce into one producer call.
//
// maxEntries bounds the map with LRU eviction when positive; zero or
// negative means unbounded.
type singleMap[K comparable, T any] struct {
	mu         sync.RWMutex
	m          map[K]entry[T]
	order      *list.List // most-recently-used at the front; nil if unbounded
	maxEntries int
	flight     singleflight.Group[K, Result[T]]
}

func newSingleMap[K comparable, T any](maxEntries int) *singleMap[K, T] {
	s := &singleMap[K, T]{m: make(map[K]entry[T]), maxEntries: maxEntries}
	if maxEntries > 0 {
		s.order = list.New()
	}
	return s
}

// touch must be called with s.mu held. It marks key as most-recently-used
// and evicts the least-recently-used entry if the map is now over bound.
func (s *singleMap[K, T]) touch(key K) {
	if s.order == nil {
		return
	}
	e := s.m[key]
	if e.elem != nil {
		s.order.MoveToFront(e.elem)
		return
	}
	e.elem = s.order.PushFront(key)
	s.m[key] = e
	if s.order.Len() > s.maxEntries {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.m, oldest.Value.(K))
		}
	}
}

func (s *singleMap[K, T]) compute(ctx context.Context, key K, orElseGet Producer[T]) (Result[T], error) {
	s.mu.RLock()
	if e, ok := s.m[key]; ok {
		s.mu.RUnlock()
		s.mu.Lock()
		s.touch(key)
		s.mu.Unlock()
		if e.unavailable {
			return Unavailable[T](), nil
		}
		return Cached(e.payload), nil
	}
	s.mu.RUnlock()

	res, err, _ := s.flight.Do(key, func() (Result[T], error) {
		// Re-check under the flight group: another caller may have just
		// finished producing this key while we waited for the read lock.
		s.mu.RLock()
		if e, ok := s.m[key]; ok {
			s.mu.RUnlock()
			if e.unavailable {
				return Unavailable[T](), nil
			}
			return Cached(e.payload), nil
		}
		s.mu.RUnlock()

		v, perr := orElseGet(ctx)
		if errors.Is(perr, ErrNotFound) {
			s.mu.Lock()
			s.m[key] = entry[T]{unavailable: true}
			s.touch(key)
			s.mu.Unlock()
			return Unavailable[T](), nil
		}
		if perr != nil {
			// Error transparency: never cached, bubbles to every waiter.
			return Result[T]{}, perr
		}
		s.mu.Lock()
		s.m[key] = entry[T]{payload: v}
		s.touch(key)
		s.mu.Unlock()
		return Updated(v), nil
	})
	return res, err
}

// pomKey identifies one coordinate's POM within one repository: the
// GroupArtifactRepository keys the lookup, but two versions of the same
// artifact are different POMs, so the version is folded into the key.
type pomKey struct {
	pom.GroupArtifactRepository
	Version string
}

// MemoryCache is the in-memory PomCache backend: three independent
// singleMaps, one per kind of lookup.
type MemoryCache struct {
	poms     *singleMap[pomKey, pom.Project]
	metadata *singleMap[pom.GroupArtifactRepository, pom.Metadata]
	repos    *singleMap[string, pom.Repository]
}

// NewMemoryCache returns an unbounded in-memory PomCache: entries are kept
// for the cache's lifetime.
func NewMemoryCache() *MemoryCache {
	return NewBoundedMemoryCache(0)
}

// NewBoundedMemoryCache returns an in-memory PomCache that evicts its
// least-recently-used entry, independently per store (POMs, metadata,
// repositories), once that store holds more than maxEntries keys.
// maxEntries <= 0 means unbounded, same as NewMemoryCache.
func NewBoundedMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		poms:     newSingleMap[pomKey, pom.Project](maxEntries),
		metadata: newSingleMap[pom.GroupArtifactRepository, pom.Metadata](maxEntries),
		repos:    newSingleMap[string, pom.Repository](maxEntries),
	}
}

func (c *MemoryCache) ComputeMavenMetadata(ctx context.Context, repo pom.Repository, ga pom.GroupArtifact, orElseGet Producer[pom.Metadata]) (Result[pom.Metadata], error) {
	return c.metadata.compute(ctx, pom.Key(repo, ga), orElseGet)
}

func (c *MemoryCache) ComputePom(ctx context.Context, repo pom.Repository, coord pom.Coordinate, orElseGet Producer[pom.Project]) (Result[pom.Project], error) {
	key := pomKey{GroupArtifactRepository: pom.Key(repo, coord.GroupArtifact), Version: coord.Version}
	return c.poms.compute(ctx, key, orElseGet)
}

func (c *MemoryCache) ComputeRepository(ctx context.Context, repo pom.Repository, orElseGet Producer[pom.Repository]) (Result[pom.Repository], error) {
	return c.repos.compute(ctx, string(repo.URL)+"|"+string(repo.ID), orElseGet)
}

var _ PomCache = (*MemoryCache)(nil)
