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

/*
Package cache implements PomCache, the layered memoization of the three
kinds of remote Maven lookups a resolution touches: raw POMs, per-package
metadata listings, and normalized repository descriptors.

Every lookup is a deferred-producer call: the caller supplies a function to
run on a miss, and the cache guarantees it runs at most once per key even
under concurrent callers (see internal/singleflight), distinguishes a
definitive negative answer (Unavailable, cached) from a transport failure
(propagated, never cached), and composes in layers via OrElse.
*/
package cache

import (
	"context"
	"errors"

	"github.com/escardin/rewrite/pom"
)

// ErrNotFound is returned by a Producer to report a definitive negative: the
// upstream repository does not have the requested POM, metadata, or
// repository descriptor. It is distinct from any other error, which is
// assumed to be a transport or parse failure and is never cached.
var ErrNotFound = errors.New("cache: not found upstream")

// ErrCacheLocked is returned by a persistent cache backend's constructor
// when it cannot acquire the exclusive open lock within its configured wait.
var ErrCacheLocked = errors.New("cache: workspace locked by another process")

// Producer fetches a fresh value of T on a cache miss. Returning an error
// that wraps ErrNotFound causes the result to be cached as Unavailable;
// any other error propagates to the caller uncached.
type Producer[T any] func(ctx context.Context) (T, error)

// state tags the three possible outcomes of a Result.
type state byte

const (
	stateUnavailable state = iota
	stateCached
	stateUpdated
)

// Result is the tri-state outcome of a cache lookup: a cache hit (Cached),
// a miss the producer just resolved (Updated), or a definitive negative
// (Unavailable, which carries no payload by construction — there is no way
// to construct an Unavailable Result with a non-zero payload).
type Result[T any] struct {
	state   state
	payload T
}

// Cached wraps a value that was already present in the cache.
func Cached[T any](v T) Result[T] { return Result[T]{state: stateCached, payload: v} }

// Updated wraps a value the producer just computed on a miss.
func Updated[T any](v T) Result[T] { return Result[T]{state: stateUpdated, payload: v} }

// Unavailable reports that the upstream definitively has no such value.
func Unavailable[T any]() Result[T] { return Result[T]{state: stateUnavailable} }

func (r Result[T]) IsCached() bool      { return r.state == stateCached }
func (r Result[T]) IsUpdated() bool     { return r.state == stateUpdated }
func (r Result[T]) IsUnavailable() bool { return r.state == stateUnavailable }

// Value returns the payload and true, unless the Result is Unavailable, in
// which case it returns the zero value and false.
func (r Result[T]) Value() (T, bool) {
	if r.state == stateUnavailable {
		var zero T
		return zero, false
	}
	return r.payload, true
}

// PomCache memoizes the three kinds of remote lookups a POM download needs.
// Implementations must be safe for concurrent use: the resolver may run
// concurrently across independent root POMs.
type PomCache interface {
	// ComputeMavenMetadata returns the cached metadata listing for ga in
	// repo, computing it via orElseGet on a miss.
	ComputeMavenMetadata(ctx context.Context, repo pom.Repository, ga pom.GroupArtifact, orElseGet Producer[pom.Metadata]) (Result[pom.Metadata], error)
	// ComputePom returns the cached raw POM for coord in repo, computing it
	// via orElseGet on a miss.
	ComputePom(ctx context.Context, repo pom.Repository, coord pom.Coordinate, orElseGet Producer[pom.Project]) (Result[pom.Project], error)
	// ComputeRepository returns the cached normalized form of repo,
	// computing it via orElseGet on a miss.
	ComputeRepository(ctx context.Context, repo pom.Repository, orElseGet Producer[pom.Repository]) (Result[pom.Repository], error)
}

// OrElse returns a PomCache that checks a first and falls through to b on a
// miss, per key and per operation. Whichever layer actually produces the
// value is the one that writes it: if a has the key, b is never consulted;
// if a misses but b has it, a is backfilled (written through) while b is
// left untouched (it already had it). If neither has it, a is written with
// whatever orElseGet (ultimately) returns.
func OrElse(a, b PomCache) PomCache {
	return orElseCache{a: a, b: b}
}

type orElseCache struct {
	a, b PomCache
}

func (o orElseCache) ComputeMavenMetadata(ctx context.Context, repo pom.Repository, ga pom.GroupArtifact, orElseGet Producer[pom.Metadata]) (Result[pom.Metadata], error) {
	inner := func(ctx context.Context) (pom.Metadata, error) {
		res, err := o.b.ComputeMavenMetadata(ctx, repo, ga, orElseGet)
		if err != nil {
			return pom.Metadata{}, err
		}
		v, ok := res.Value()
		if !ok {
			return pom.Metadata{}, ErrNotFound
		}
		return v, nil
	}
	return o.a.ComputeMavenMetadata(ctx, repo, ga, inner)
}

func (o orElseCache) ComputePom(ctx context.Context, repo pom.Repository, coord pom.Coordinate, orElseGet Producer[pom.Project]) (Result[pom.Project], error) {
	inner := func(ctx context.Context) (pom.Project, error) {
		res, err := o.b.ComputePom(ctx, repo, coord, orElseGet)
		if err != nil {
			return pom.Project{}, err
		}
		v, ok := res.Value()
		if !ok {
			return pom.Project{}, ErrNotFound
		}
		return v, nil
	}
	return o.a.ComputePom(ctx, repo, coord, inner)
}

func (o orElseCache) ComputeRepository(ctx context.Context, repo pom.Repository, orElseGet Producer[pom.Repository]) (Result[pom.Repository], error) {
	inner := func(ctx context.Context) (pom.Repository, error) {
		res, err := o.b.ComputeRepository(ctx, repo, orElseGet)
		if err != nil {
			return pom.Repository{}, err
		}
		v, ok := res.Value()
		if !ok {
			return pom.Repository{}, ErrNotFound
		}
		return v, nil
	}
	return o.a.ComputeRepository(ctx, repo, inner)
}

// NOOP is a PomCache that never remembers anything: every call invokes
// orElseGet directly and the result is never stored. It is useful as the
// innermost layer of a composition, or as a stand-in when caching is
// disabled entirely.
func NOOP() PomCache { return noopCache{} }

type noopCache struct{}

func (noopCache) ComputeMavenMetadata(ctx context.Context, repo pom.Repository, ga pom.GroupArtifact, orElseGet Producer[pom.Metadata]) (Result[pom.Metadata], error) {
	v, err := orElseGet(ctx)
	if errors.Is(err, ErrNotFound) {
		return Unavailable[pom.Metadata](), nil
	}
	if err != nil {
		return Result[pom.Metadata]{}, err
	}
	return Updated(v), nil
}

func (noopCache) ComputePom(ctx context.Context, repo pom.Repository, coord pom.Coordinate, orElseGet Producer[pom.Project]) (Result[pom.Project], error) {
	v, err := orElseGet(ctx)
	if errors.Is(err, ErrNotFound) {
		return Unavailable[pom.Project](), nil
	}
	if err != nil {
		return Result[pom.Project]{}, err
	}
	return Updated(v), nil
}

func (noopCache) ComputeRepository(ctx context.Context, repo pom.Repository, orElseGet Producer[pom.Repository]) (Result[pom.Repository], error) {
	v, err := orElseGet(ctx)
	if errors.Is(err, ErrNotFound) {
		return Unavailable[pom.Repository](), nil
	}
	if err != nil {
		return Result[pom.Repository]{}, err
	}
	return Updated(v), nil
}
