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
	"fmt"
	"os"
	"path/filepath"

	"github.com/escardin/rewrite/cache"
	"github.com/escardin/rewrite/internal/singleflight"
)

// DiskCache stores artifact bytes as individual files under a root
// directory, one per Key. Writes are atomic: Put writes to a temp file in
// the same directory and renames it into place, so a reader never observes
// a partially-written artifact.
type DiskCache struct {
	root   string
	flight singleflight.Group[Key, cache.Result[[]byte]]
}

// NewDiskCache returns a DiskCache rooted at dir, creating it if necessary.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifactcache: %w", err)
	}
	return &DiskCache{root: dir}, nil
}

func (c *DiskCache) path(key Key) string {
	return filepath.Join(c.root, key.filename())
}

func (c *DiskCache) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	b, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("artifactcache: read: %w", err)
	}
	return b, true, nil
}

func (c *DiskCache) Put(ctx context.Context, key Key, b []byte) error {
	if len(b) == 0 {
		return ErrEmpty
	}
	tmp, err := os.CreateTemp(c.root, key.filename()+".tmp-*")
	if err != nil {
		return fmt.Errorf("artifactcache: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("artifactcache: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("artifactcache: close: %w", err)
	}
	if err := os.Rename(tmpName, c.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("artifactcache: rename: %w", err)
	}
	return nil
}

func (c *DiskCache) Compute(ctx context.Context, key Key, orElseGet Producer) (cache.Result[[]byte], error) {
	if b, ok, err := c.Get(ctx, key); err != nil {
		return cache.Result[[]byte]{}, err
	} else if ok {
		return cache.Cached(b), nil
	}

	res, err, _ := c.flight.Do(key, func() (cache.Result[[]byte], error) {
		if b, ok, err := c.Get(ctx, key); err != nil {
			return cache.Result[[]byte]{}, err
		} else if ok {
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

var _ Cache = (*DiskCache)(nil)
