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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/escardin/rewrite/pom"
)

// UnresolvableSet is a static list of coordinates known to be permanently
// unresolvable, consulted before any producer runs. It is read-only after
// construction.
type UnresolvableSet struct {
	coords map[pom.Coordinate]bool
}

// LoadUnresolvable parses a newline-delimited list of g:a:v coordinates,
// unresolvable.txt's format; blank lines are ignored.
func LoadUnresolvable(r io.Reader) (*UnresolvableSet, error) {
	set := &UnresolvableSet{coords: make(map[pom.Coordinate]bool)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c, err := pom.ParseCoordinate(line)
		if err != nil {
			return nil, fmt.Errorf("cache: unresolvable.txt: %w", err)
		}
		set.coords[c] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cache: unresolvable.txt: %w", err)
	}
	return set, nil
}

// LoadUnresolvableFile loads path as an unresolvable.txt resource. A
// missing file yields an empty set, not an error: the resource is
// optional.
func LoadUnresolvableFile(path string) (*UnresolvableSet, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &UnresolvableSet{coords: map[pom.Coordinate]bool{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadUnresolvable(f)
}

// Contains reports whether coord is listed as permanently unresolvable.
func (s *UnresolvableSet) Contains(coord pom.Coordinate) bool {
	if s == nil {
		return false
	}
	return s.coords[coord]
}

// WithUnresolvable wraps next so that ComputePom short-circuits to
// Unavailable for any coordinate listed in set, without ever calling next's
// producer or touching next's own store. ComputeMavenMetadata and
// ComputeRepository pass straight through: the unresolvable list names
// coordinates, not packages or repositories.
func WithUnresolvable(set *UnresolvableSet, next PomCache) PomCache {
	return unresolvableCache{set: set, next: next}
}

type unresolvableCache struct {
	set  *UnresolvableSet
	next PomCache
}

func (u unresolvableCache) ComputeMavenMetadata(ctx context.Context, repo pom.Repository, ga pom.GroupArtifact, orElseGet Producer[pom.Metadata]) (Result[pom.Metadata], error) {
	return u.next.ComputeMavenMetadata(ctx, repo, ga, orElseGet)
}

func (u unresolvableCache) ComputePom(ctx context.Context, repo pom.Repository, coord pom.Coordinate, orElseGet Producer[pom.Project]) (Result[pom.Project], error) {
	if u.set.Contains(coord) {
		return Unavailable[pom.Project](), nil
	}
	return u.next.ComputePom(ctx, repo, coord, orElseGet)
}

func (u unresolvableCache) ComputeRepository(ctx context.Context, repo pom.Repository, orElseGet Producer[pom.Repository]) (Result[pom.Repository], error) {
	return u.next.ComputeRepository(ctx, repo, orElseGet)
}

var _ PomCache = unresolvableCache{}
