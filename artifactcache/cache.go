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
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/escardin/rewrite/cache"
)

// ErrEmpty is returned by Put when b is empty, and by PutStream when the
// supplied stream yields zero bytes. An empty stream is a null artifact, not
// an I/O failure.
var ErrEmpty = errors.New("artifactcache: empty stream")

// Producer fetches an artifact's bytes on a Compute miss. It returns
// cache.ErrNotFound for a definitive negative (no such artifact upstream).
type Producer func(ctx context.Context, key Key) ([]byte, error)

// Cache is the artifact byte store: get, put, and compute, reusing
// cache.Result's tri-state (Cached/Updated/Unavailable) so a miss that the
// upstream genuinely lacks is distinguished from one it simply hasn't fetched
// yet, same as cache.PomCache.
type Cache interface {
	// Get returns the cached bytes for key, if present.
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	// Put stores b under key. An empty b returns ErrEmpty and stores
	// nothing.
	Put(ctx context.Context, key Key, b []byte) error
	// Compute returns the cached bytes for key, producing and storing them
	// via orElseGet on a miss.
	Compute(ctx context.Context, key Key, orElseGet Producer) (cache.Result[[]byte], error)
}

// readAll drains r, reporting ErrEmpty if it yields no bytes at all.
func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, ErrEmpty
	}
	return buf.Bytes(), nil
}

// PutStream drains r and stores the result under key via c.Put. An empty
// stream yields ErrEmpty and stores nothing; a read failure is returned
// without any write. It is the streaming entry point a downloader hands an
// HTTP response body to, without buffering the artifact itself first.
func PutStream(ctx context.Context, c Cache, key Key, r io.Reader) error {
	b, err := readAll(r)
	if err != nil {
		return err
	}
	return c.Put(ctx, key, b)
}

// OrElse returns a Cache that checks a first and falls through to b on a
// miss, backfilling a with whatever b (or the ultimate producer) returns,
// mirroring cache.OrElse.
func OrElse(a, b Cache) Cache {
	return orElseCache{a: a, b: b}
}

type orElseCache struct {
	a, b Cache
}

func (o orElseCache) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if b, ok, err := o.a.Get(ctx, key); err != nil || ok {
		return b, ok, err
	}
	return o.b.Get(ctx, key)
}

func (o orElseCache) Put(ctx context.Context, key Key, b []byte) error {
	return o.a.Put(ctx, key, b)
}

func (o orElseCache) Compute(ctx context.Context, key Key, orElseGet Producer) (cache.Result[[]byte], error) {
	inner := func(ctx context.Context, key Key) ([]byte, error) {
		res, err := o.b.Compute(ctx, key, orElseGet)
		if err != nil {
			return nil, err
		}
		v, ok := res.Value()
		if !ok {
			return nil, cache.ErrNotFound
		}
		return v, nil
	}
	return o.a.Compute(ctx, key, inner)
}

// NOOP returns a Cache that never remembers anything: Get always misses, Put
// discards, Compute always invokes orElseGet directly.
func NOOP() Cache { return noopCache{} }

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key Key) ([]byte, bool, error) { return nil, false, nil }

func (noopCache) Put(ctx context.Context, key Key, b []byte) error {
	if len(b) == 0 {
		return ErrEmpty
	}
	return nil
}

func (noopCache) Compute(ctx context.Context, key Key, orElseGet Producer) (cache.Result[[]byte], error) {
	v, err := orElseGet(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return cache.Unavailable[[]byte](), nil
	}
	if err != nil {
		return cache.Result[[]byte]{}, err
	}
	return cache.Updated(v), nil
}
