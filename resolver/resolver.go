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
Package resolver computes a Maven project's full transitive dependency
tree: nearest-wins BFS mediation, scope transitivity, exclusions, optional
cutoffs and dependencyManagement overrides, all working directly from
download.Client-fetched, already-interpolated pom.Project values.

There is no version-range mediation between competing requirements here:
by the time resolver sees a pom.Dependency its Version field is already a
concrete string (download.Client.EffectiveProject ran
pom.Project.ProcessDependencies, which folds in dependencyManagement and
BOM imports before resolver starts walking). What remains is the pair of
rules Maven's dependency mechanism defines on top of that
(https://maven.apache.org/guides/introduction/introduction-to-dependency-mechanism.html):
scope.TransitiveOf applied at every edge, and a dependencyManagement
override map seeded nearest-first as the BFS widens, mirroring
pom.Project.ProcessDependencies's own "first declaration wins" map-building
idiom.
*/
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/escardin/rewrite/download"
	"github.com/escardin/rewrite/graph"
	"github.com/escardin/rewrite/pom"
	"github.com/escardin/rewrite/scope"
)

// ErrUnresolvedVersion is returned when a surviving dependency's version is
// still empty or a ${...} placeholder after interpolation and dependency
// management have both had their say.
var ErrUnresolvedVersion = errors.New("resolver: version unresolved after interpolation")

// maxNodes bounds the BFS. Maven dependency trees don't legitimately cycle,
// but nothing stops a hostile or buggy repository from publishing POMs
// that do, so this is the same kind of backstop as download.maxParentDepth
// for parent chains.
const maxNodes = 20000

// queueItem is one pending edge: a dependency declaration found in
// parentNode's effective POM, still needing scope/exclusion/version
// resolution before it can become a graph.Dependency of its own.
type queueItem struct {
	parentNode *graph.Dependency
	dep        pom.Dependency
	// edgeScope is the scope the edge into parentNode was resolved with.
	// scope.None is the sentinel for "this is a direct dependency of the
	// root project", the one case where the dependency's own declared
	// scope is used as-is rather than passed through scope.TransitiveOf.
	edgeScope  scope.Scope
	exclusions []pom.Exclusion
}

// Resolve builds root's full transitive dependency tree by repeatedly
// fetching each surviving dependency's effective POM from client and
// folding its own dependencies into the BFS queue.
func Resolve(ctx context.Context, client *download.Client, root pom.Coordinate) (*graph.Dependency, error) {
	rootProj, err := client.EffectiveProject(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("resolver: %s: %w", root, err)
	}
	repo, err := client.RepositoryFor(ctx, root)
	if err != nil {
		repo = ""
	}
	rootNode := &graph.Dependency{Coordinate: root, Scope: scope.Compile, Repository: repo}

	managed := make(map[pom.DependencyKey]string, len(rootProj.DependencyManagement.Dependencies))
	for _, dm := range rootProj.DependencyManagement.Dependencies {
		managed[dm.Key()] = string(dm.Version)
	}

	resolved := map[pom.DependencyKey]pom.Coordinate{
		rootKey(root): root,
	}

	queue := make([]queueItem, 0, len(rootProj.Dependencies))
	for _, d := range rootProj.Dependencies {
		queue = append(queue, queueItem{parentNode: rootNode, dep: d, edgeScope: scope.None})
	}

	nodeCount := 1
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		ga := item.dep.GroupArtifactKey()
		if isExcluded(item.exclusions, ga) {
			continue
		}
		declared := scope.Parse(string(item.dep.Scope))
		effScope := declared
		if item.edgeScope != scope.None {
			effScope = scope.TransitiveOf(item.edgeScope, declared)
		}
		if effScope == scope.None || effScope == scope.Invalid {
			continue
		}

		key := item.dep.Key()
		if _, ok := resolved[key]; ok {
			// Nearest-wins: an edge to this (groupId, artifactId,
			// classifier, type) already won, at this depth or shallower
			// (BFS visits shallower edges first; within a depth,
			// declaration order in the queue preserves first-declared
			// precedence). Later edges to the same key are dropped
			// outright rather than drawn again, which is what makes the
			// result a tree instead of a graph.
			continue
		}

		version := string(item.dep.Version)
		if v, ok := managed[key]; ok && v != "" {
			// A direct dependency's explicit version beats dependency
			// management; on a transitive edge the nearest management
			// entry overrides what the deeper POM asked for.
			if version == "" || item.edgeScope != scope.None {
				version = v
			}
		}
		if version == "" || strings.Contains(version, "${") {
			return nil, fmt.Errorf("resolver: %s: %s: %w", root, ga, ErrUnresolvedVersion)
		}
		coord := pom.Coordinate{GroupArtifact: ga, Version: version}
		resolved[key] = coord

		node := &graph.Dependency{
			Coordinate:       coord,
			Scope:            effScope,
			RequestedVersion: string(item.dep.Version),
			Exclusions:       item.dep.Exclusions,
			Optional:         item.dep.Optional.Boolean(),
		}
		item.parentNode.Children = append(item.parentNode.Children, node)
		nodeCount++
		if nodeCount > maxNodes {
			return nil, fmt.Errorf("resolver: %s: exceeded %d nodes, suspected cycle", root, maxNodes)
		}

		if node.Optional {
			// An optional dependency rides the build, but (per Maven's
			// own rule) its own dependencies are never pulled in further:
			// optionality only controls what a *consumer* of this POM
			// inherits transitively, not what this POM itself needs.
			continue
		}
		if effScope == scope.System {
			// scope.TransitiveOf's own table: System is a leaf, its
			// dependencies are never resolved transitively.
			continue
		}

		childProj, err := client.EffectiveProject(ctx, coord)
		if err != nil {
			node.Error = err.Error()
			continue
		}
		childRepo, err := client.RepositoryFor(ctx, coord)
		if err == nil {
			node.Repository = childRepo
		}
		for _, dm := range childProj.DependencyManagement.Dependencies {
			dk := dm.Key()
			if _, ok := managed[dk]; !ok {
				managed[dk] = string(dm.Version)
			}
		}
		childExclusions := mergeExclusions(item.exclusions, item.dep.Exclusions)
		for _, cd := range childProj.Dependencies {
			queue = append(queue, queueItem{
				parentNode: node,
				dep:        cd,
				edgeScope:  effScope,
				exclusions: childExclusions,
			})
		}
	}

	return rootNode, nil
}

func rootKey(c pom.Coordinate) pom.DependencyKey {
	return pom.DependencyKey{
		GroupArtifact: c.GroupArtifact,
		Type:          pom.DefaultDependencyType,
	}
}

// isExcluded reports whether any exclusion in the accumulated list (the
// union of every exclusion declared along the path from the root to the
// edge bringing in ga) matches ga.
func isExcluded(exclusions []pom.Exclusion, ga pom.GroupArtifact) bool {
	for _, e := range exclusions {
		if e.Matches(ga) {
			return true
		}
	}
	return false
}

// mergeExclusions extends inherited with own, the set of exclusions that
// apply to every dependency reached beneath this edge.
func mergeExclusions(inherited, own []pom.Exclusion) []pom.Exclusion {
	if len(own) == 0 {
		return inherited
	}
	merged := make([]pom.Exclusion, 0, len(inherited)+len(own))
	merged = append(merged, inherited...)
	merged = append(merged, own...)
	return merged
}
