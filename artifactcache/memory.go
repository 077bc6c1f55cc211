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

package artifactcache

import (
	"context"
	"errors"
	"sync"

	"github.com/escardin/rewrite/cache"
	"github.com/escardin/rewrite/internal/singleflight"
)

// MemoryCache is an in-process Cache, useful as the fast layer in front of
// DiskCache or as a test double. Shares its coalescing algorithm with
// cache.MemoryCache via internal/singleflight.
type MemoryCache struct {
	mu     sync.RWMutex
	m      map[Key][]byte
	flight singleflight.Group[Key, cache.Result[[]byte]]
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[Key][]byte)}
}

func (c *MemoryCache) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *MemoryCache) Put(ctx context.Context, key Key, b []byte) error {
	if len(b) == 0 {
		return ErrEmpty
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = b
	return nil
}

func (c *MemoryCache) Compute(ctx context.Context, key Key, orElseGet Producer) (cache.Result[[]byte], error) {
	if b, ok, _ := c.Get(ctx, key); ok {
		return cache.Cached(b), nil
	}
	res, err, _ := c.flight.Do(key, func() (cache.Result[[]byte], error) {
		if b, ok, _ := c.Get(ctx, key); ok {
			return cache.Cached(b), nil
		}
		b, perr := orElseGet(ctx, key)
		if errors.Is(perr, cache.ErrNotFound) {
			return cache.Unavailable[[]byte](), nil
		}
		if perr != nil {
			return cache.Result[[]byte]{}, perr
		}
		if err := c.Put(ctx, key, b); err != nil && !errors.Is(err, ErrEmpty) {
			return cache.Result[[]byte]{}, err
		}
		return cache.Updated(b), nil
	})
	return res, err
}

var _ Cache = (*MemoryCache)(nil)
