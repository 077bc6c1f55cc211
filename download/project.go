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

package download

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log"

	"github.com/escardin/rewrite/cache"
	"github.com/escardin/rewrite/pom"
)

const debug = false

// ErrPomNotFound is returned when every configured repository's cache
// answers Unavailable for a coordinate.
var ErrPomNotFound = errors.New("download: pom not found in any configured repository")

// ErrCycleDetected is returned when a POM's parent chain revisits a
// coordinate already on the chain.
var ErrCycleDetected = errors.New("download: parent chain cycle")

// maxParentDepth bounds the parent chain walk. Revisiting a coordinate on
// the chain is rejected outright as a cycle; the depth bound is the
// backstop for absurdly deep non-repeating chains.
const maxParentDepth = 16

// Client fetches and assembles Maven POMs from a fixed, ordered list of
// repositories, for both the resolver (EffectiveProject) and recipes
// (AvailableVersions). All network access goes through the pluggable
// Transport; all memoization goes through the PomCache.
type Client struct {
	Repos     []pom.Repository
	Cache     cache.PomCache
	Transport Transport

	// JDK and OS drive Maven profile activation (pom.Project.MergeProfiles).
	JDK string
	OS  pom.ActivationOS
}

// New returns a Client that consults repos in the given order. Each
// repository is normalized through the cache's ComputeRepository on first
// use.
func New(repos []pom.Repository, c cache.PomCache, t Transport) *Client {
	return &Client{Repos: repos, Cache: c, Transport: t}
}

// repositories returns the configured repositories in declaration order,
// each normalized via the repository cache so the normalized form is
// computed once and recorded alongside POMs and metadata. A repository the
// cache has recorded as Unavailable is skipped.
func (c *Client) repositories(ctx context.Context) ([]pom.Repository, error) {
	repos := make([]pom.Repository, 0, len(c.Repos))
	for _, r := range c.Repos {
		r := r
		res, err := c.Cache.ComputeRepository(ctx, r, func(context.Context) (pom.Repository, error) {
			return r.Normalize(), nil
		})
		if err != nil {
			return nil, err
		}
		if nr, ok := res.Value(); ok {
			repos = append(repos, nr)
		}
	}
	return repos, nil
}

func (c *Client) fetchRawProject(ctx context.Context, repo pom.Repository, coord pom.Coordinate) (pom.Project, error) {
	url := string(repo.URL) + "/" + coord.Path()
	data, err := c.Transport.Fetch(ctx, url)
	if err != nil {
		return pom.Project{}, err
	}
	var proj pom.Project
	if err := xml.Unmarshal(data, &proj); err != nil {
		return pom.Project{}, fmt.Errorf("download: parse pom %s: %w", coord, err)
	}
	return proj, nil
}

// resolveRawProject consults repos in declaration order; the first
// repository whose cache answers non-Unavailable wins, and the remaining
// repositories are not queried for that coordinate.
func (c *Client) resolveRawProject(ctx context.Context, coord pom.Coordinate) (pom.Project, error) {
	repos, rerr := c.repositories(ctx)
	if rerr != nil {
		return pom.Project{}, rerr
	}
	for _, repo := range repos {
		res, err := c.Cache.ComputePom(ctx, repo, coord, func(ctx context.Context) (pom.Project, error) {
			return c.fetchRawProject(ctx, repo, coord)
		})
		if err != nil {
			return pom.Project{}, err
		}
		if v, ok := res.Value(); ok {
			return v, nil
		}
		if debug {
			log.Printf("download: %s unavailable in %s", coord, repo.URL)
		}
	}
	return pom.Project{}, fmt.Errorf("%s: %w", coord, ErrPomNotFound)
}

// RepositoryFor returns the normalized URL of the repository that answers
// coord's own POM lookup (ignoring any parent coordinate's repository),
// consulting the same cache EffectiveProject uses: once EffectiveProject has
// run for coord the answer comes from the cache, and on a cold cache the
// POM is fetched through exactly as EffectiveProject would fetch it.
func (c *Client) RepositoryFor(ctx context.Context, coord pom.Coordinate) (string, error) {
	repos, rerr := c.repositories(ctx)
	if rerr != nil {
		return "", rerr
	}
	for _, repo := range repos {
		res, err := c.Cache.ComputePom(ctx, repo, coord, func(ctx context.Context) (pom.Project, error) {
			return c.fetchRawProject(ctx, repo, coord)
		})
		if err != nil {
			return "", err
		}
		if _, ok := res.Value(); ok {
			return string(repo.URL), nil
		}
	}
	return "", fmt.Errorf("%s: %w", coord, ErrPomNotFound)
}

// EffectiveProject returns coord's fully assembled Project: parent chain
// merged, profiles merged, properties interpolated, dependency management
// processed (including BOM imports, which recursively call back into
// EffectiveProject for the imported POM). This is the single entry point
// resolver uses to read a coordinate's own declared dependencies and
// dependency management — it never parses POM XML itself.
func (c *Client) EffectiveProject(ctx context.Context, coord pom.Coordinate) (pom.Project, error) {
	proj, err := c.resolveRawProject(ctx, coord)
	if err != nil {
		return pom.Project{}, err
	}

	parent := proj.Parent
	onChain := map[pom.Coordinate]bool{coord: true}
	for depth := 0; parent.GroupID != "" && depth < maxParentDepth; depth++ {
		parentCoord := pom.Coordinate{
			GroupArtifact: pom.GroupArtifact{GroupID: string(parent.GroupID), ArtifactID: string(parent.ArtifactID)},
			Version:       string(parent.Version),
		}
		if onChain[parentCoord] {
			return pom.Project{}, fmt.Errorf("%s via %s: %w", coord, parentCoord, ErrCycleDetected)
		}
		onChain[parentCoord] = true
		parentProj, err := c.resolveRawProject(ctx, parentCoord)
		if err != nil {
			// Maven tolerates an unreachable parent by leaving the fields it
			// would have supplied unresolved; stop climbing rather than fail
			// the whole resolution.
			if debug {
				log.Printf("download: parent %s of %s unreachable: %v", parentCoord, coord, err)
			}
			break
		}
		proj.MergeParent(parentProj)
		parent = parentProj.Parent
	}

	if err := proj.MergeProfiles(c.JDK, c.OS); err != nil && debug {
		log.Printf("download: %s: profile activation: %v", coord, err)
	}
	if err := proj.Interpolate(); err != nil {
		return pom.Project{}, fmt.Errorf("download: interpolate %s: %w", coord, err)
	}

	proj.ProcessDependencies(func(bomCoord pom.Coordinate) (pom.DependencyManagement, error) {
		bom, err := c.EffectiveProject(ctx, bomCoord)
		if err != nil {
			return pom.DependencyManagement{}, err
		}
		return bom.DependencyManagement, nil
	})

	return proj, nil
}

func (c *Client) fetchMetadata(ctx context.Context, repo pom.Repository, ga pom.GroupArtifact) (pom.Metadata, error) {
	url := string(repo.URL) + "/" + ga.MetadataPath()
	data, err := c.Transport.Fetch(ctx, url)
	if err != nil {
		return pom.Metadata{}, err
	}
	var md pom.Metadata
	if err := xml.Unmarshal(data, &md); err != nil {
		return pom.Metadata{}, fmt.Errorf("download: parse metadata %s: %w", ga, err)
	}
	return md, nil
}

// allVersions unions the version lists of ga's maven-metadata.xml across
// every configured repository.
func (c *Client) allVersions(ctx context.Context, ga pom.GroupArtifact) ([]string, error) {
	repos, rerr := c.repositories(ctx)
	if rerr != nil {
		return nil, rerr
	}
	seen := make(map[string]bool)
	var versions []string
	anyAvailable := false
	for _, repo := range repos {
		res, err := c.Cache.ComputeMavenMetadata(ctx, repo, ga, func(ctx context.Context) (pom.Metadata, error) {
			return c.fetchMetadata(ctx, repo, ga)
		})
		if err != nil {
			return nil, err
		}
		md, ok := res.Value()
		if !ok {
			continue
		}
		anyAvailable = true
		for _, v := range md.Versioning.Versions {
			sv := string(v)
			if !seen[sv] {
				seen[sv] = true
				versions = append(versions, sv)
			}
		}
	}
	if !anyAvailable {
		return nil, fmt.Errorf("%s: %w", ga, ErrPomNotFound)
	}
	return versions, nil
}

// AvailableVersions returns the union of ga's maven-metadata.xml version
// lists across every configured repository. It is the entry point recipes
// use to compare candidates against a mavenver.Constraint without driving a
// full transitive resolve.
func (c *Client) AvailableVersions(ctx context.Context, ga pom.GroupArtifact) ([]string, error) {
	return c.allVersions(ctx, ga)
}

// RepoCacheStatus reports one configured repository's cache.Result state
// for an Inspect call: whether the lookup was already cached, was just
// fetched and stored, or came back as a cached negative.
type RepoCacheStatus struct {
	Repo        pom.Repository
	Cached      bool
	Updated     bool
	Unavailable bool
	Err         error
}

// InspectMetadata reports, per configured repository, the cache outcome of
// ga's maven-metadata.xml lookup (fetching through on a miss, the same way
// allVersions does), for a CLI that wants to show cache state rather than
// just the merged version list.
func (c *Client) InspectMetadata(ctx context.Context, ga pom.GroupArtifact) []RepoCacheStatus {
	repos, err := c.repositories(ctx)
	if err != nil {
		return []RepoCacheStatus{{Err: err}}
	}
	out := make([]RepoCacheStatus, 0, len(repos))
	for _, repo := range repos {
		res, err := c.Cache.ComputeMavenMetadata(ctx, repo, ga, func(ctx context.Context) (pom.Metadata, error) {
			return c.fetchMetadata(ctx, repo, ga)
		})
		out = append(out, RepoCacheStatus{Repo: repo, Cached: res.IsCached(), Updated: res.IsUpdated(), Unavailable: res.IsUnavailable(), Err: err})
	}
	return out
}

// InspectPom is InspectMetadata's counterpart for a single POM coordinate.
func (c *Client) InspectPom(ctx context.Context, coord pom.Coordinate) []RepoCacheStatus {
	repos, err := c.repositories(ctx)
	if err != nil {
		return []RepoCacheStatus{{Err: err}}
	}
	out := make([]RepoCacheStatus, 0, len(repos))
	for _, repo := range repos {
		res, err := c.Cache.ComputePom(ctx, repo, coord, func(ctx context.Context) (pom.Project, error) {
			return c.fetchRawProject(ctx, repo, coord)
		})
		out = append(out, RepoCacheStatus{Repo: repo, Cached: res.IsCached(), Updated: res.IsUpdated(), Unavailable: res.IsUnavailable(), Err: err})
	}
	return out
}
