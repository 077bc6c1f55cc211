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
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/escardin/rewrite/internal/singleflight"
	"github.com/escardin/rewrite/pom"
	bolt "go.etcd.io/bbolt"
)

const debug = false

// bucket names for the single bbolt file per workspace.
const (
	pomBucket        = "pom.disk"
	metadataBucket   = "metadata.disk"
	repositoryBucket = "repository.urls"
)

// DefaultLockTimeout is how long BoltCache waits to acquire the workspace's
// exclusive file lock before failing with ErrCacheLocked.
const DefaultLockTimeout = 10 * time.Second

// BoltCache is the persistent PomCache backend: a single bbolt file per
// workspace holding three named buckets, one per kind of lookup. bbolt's
// mmap-backed, single-writer-many-readers transactions provide the
// exclusive open lock and concurrency safety without any extra locking
// code here.
type BoltCache struct {
	db *bolt.DB

	poms     singleflight.Group[pomKey, Result[pom.Project]]
	metadata singleflight.Group[pom.GroupArtifactRepository, Result[pom.Metadata]]
	repos    singleflight.Group[string, Result[pom.Repository]]
}

// Option configures OpenBoltCache.
type Option func(*bolt.Options)

// WithLockTimeout overrides DefaultLockTimeout.
func WithLockTimeout(d time.Duration) Option {
	return func(o *bolt.Options) { o.Timeout = d }
}

// OpenBoltCache opens (creating if necessary) the bbolt-backed cache file
// at filepath.Join(workspace, "rewrite-cache.db"). It fails with
// ErrCacheLocked if another process holds the file's exclusive lock past
// the configured timeout.
func OpenBoltCache(workspace string, opts ...Option) (*BoltCache, error) {
	boltOpts := &bolt.Options{Timeout: DefaultLockTimeout}
	for _, opt := range opts {
		opt(boltOpts)
	}
	path := filepath.Join(workspace, "rewrite-cache.db")
	db, err := bolt.Open(path, 0o644, boltOpts)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s: %v", ErrCacheLocked, path, err)
		}
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{pomBucket, metadataBucket, repositoryBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: init buckets: %w", err)
	}
	return &BoltCache{db: db}, nil
}

// Close releases the workspace file lock.
func (c *BoltCache) Close() error { return c.db.Close() }

// envelope is the on-disk record for one cached answer: either a payload or
// a recorded Unavailable, the same three-way state MemoryCache keeps, now
// made explicit because bbolt has no notion of "absent vs empty" beyond key
// presence. serialize ∘ deserialize = identity: gob round-trips exactly the
// fields it wrote.
type envelope[T any] struct {
	Unavailable bool
	Payload     T
}

func encodeEnvelope[T any](e envelope[T]) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeEnvelope[T any](b []byte) (envelope[T], error) {
	var e envelope[T]
	err := gob.NewDecoder(bytes.NewReader(b)).Decode(&e)
	return e, err
}

// boltCompute is the shared get-or-produce-and-persist sequence for one
// bucket, parameterized over the stored value type. It coalesces concurrent
// misses on the same key via flight, exactly like MemoryCache's singleMap,
// but persists the result to bbolt instead of an in-process map.
func boltCompute[K comparable, T any](ctx context.Context, db *bolt.DB, flight *singleflight.Group[K, Result[T]], bucket string, keyBytes []byte, key K, orElseGet Producer[T]) (Result[T], error) {
	if v, ok, err := boltLookup[T](db, bucket, keyBytes); err != nil {
		return Result[T]{}, err
	} else if ok {
		if v.Unavailable {
			return Unavailable[T](), nil
		}
		return Cached(v.Payload), nil
	}

	res, err, _ := flight.Do(key, func() (Result[T], error) {
		// Re-check: another goroutine may have persisted this key while we
		// were reading without holding the flight lock.
		if v, ok, err := boltLookup[T](db, bucket, keyBytes); err != nil {
			return Result[T]{}, err
		} else if ok {
			if v.Unavailable {
				return Unavailable[T](), nil
			}
			return Cached(v.Payload), nil
		}

		val, perr := orElseGet(ctx)
		var env envelope[T]
		if errors.Is(perr, ErrNotFound) {
			env = envelope[T]{Unavailable: true}
		} else if perr != nil {
			if debug {
				log.Printf("bolt: producer error for %x: %v", keyBytes, perr)
			}
			return Result[T]{}, perr
		} else {
			env = envelope[T]{Payload: val}
		}
		enc, encErr := encodeEnvelope(env)
		if encErr != nil {
			return Result[T]{}, fmt.Errorf("cache: encode: %w", encErr)
		}
		if txErr := db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket([]byte(bucket)).Put(keyBytes, enc)
		}); txErr != nil {
			return Result[T]{}, fmt.Errorf("cache: persist: %w", txErr)
		}
		if env.Unavailable {
			return Unavailable[T](), nil
		}
		return Updated(env.Payload), nil
	})
	return res, err
}

func boltLookup[T any](db *bolt.DB, bucket string, keyBytes []byte) (envelope[T], bool, error) {
	var (
		env   envelope[T]
		found bool
		err   error
	)
	viewErr := db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucket)).Get(keyBytes)
		if v == nil {
			return nil
		}
		found = true
		env, err = decodeEnvelope[T](v)
		return nil
	})
	if viewErr != nil {
		return envelope[T]{}, false, fmt.Errorf("cache: read: %w", viewErr)
	}
	if err != nil {
		return envelope[T]{}, false, fmt.Errorf("cache: decode: %w", err)
	}
	return env, found, nil
}

func (c *BoltCache) ComputeMavenMetadata(ctx context.Context, repo pom.Repository, ga pom.GroupArtifact, orElseGet Producer[pom.Metadata]) (Result[pom.Metadata], error) {
	key := pom.Key(repo, ga)
	return boltCompute(ctx, c.db, &c.metadata, metadataBucket, []byte(key.Repository+"|"+key.GroupArtifact.String()), key, orElseGet)
}

func (c *BoltCache) ComputePom(ctx context.Context, repo pom.Repository, coord pom.Coordinate, orElseGet Producer[pom.Project]) (Result[pom.Project], error) {
	key := pomKey{GroupArtifactRepository: pom.Key(repo, coord.GroupArtifact), Version: coord.Version}
	keyBytes := []byte(key.Repository + "|" + key.GroupArtifact.String() + "|" + key.Version)
	return boltCompute(ctx, c.db, &c.poms, pomBucket, keyBytes, key, orElseGet)
}

func (c *BoltCache) ComputeRepository(ctx context.Context, repo pom.Repository, orElseGet Producer[pom.Repository]) (Result[pom.Repository], error) {
	key := string(repo.URL) + "|" + string(repo.ID)
	return boltCompute(ctx, c.db, &c.repos, repositoryBucket, []byte(key), key, orElseGet)
}

var _ PomCache = (*BoltCache)(nil)
