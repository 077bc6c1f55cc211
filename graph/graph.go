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
Package graph is the resolved dependency tree resolver produces: one
Dependency per (groupId, artifactId, classifier, type) that survived
nearest-wins resolution, holding the children it brought in.

Unlike a generic package manager's resolution graph, a Maven dependency
tree has no diamond back-references to label: nearest-wins means a
duplicate coordinate reached by a longer path is dropped outright rather
than drawn again, so the result is a genuine tree and the String rendering
needs no label or back-reference machinery.
*/
package graph

import (
	"fmt"
	"strings"

	"github.com/escardin/rewrite/pom"
	"github.com/escardin/rewrite/scope"
)

// Dependency is one resolved node in a project's dependency tree.
type Dependency struct {
	Coordinate pom.Coordinate
	Scope      scope.Scope

	// RequestedVersion is the version string as declared at this edge,
	// after interpolation and dependency-management filling.
	// Coordinate.Version is the same string unless a dependency-management
	// entry collected nearer the root overrides it; resolver does not
	// evaluate ranges.
	RequestedVersion string

	// Repository is the normalized URL of the repository Coordinate's POM
	// was actually fetched from.
	Repository string

	Exclusions []pom.Exclusion
	Optional   bool

	// Error is non-empty when this coordinate itself resolved (it won
	// nearest-wins mediation and is on the classpath) but its own POM
	// could not be fetched, so its transitive dependencies are unknown.
	// Children is always empty in that case.
	Error string

	// Children are ordered by declaration: the order their <dependency>
	// elements appeared in Coordinate's effective POM.
	Children []*Dependency
}

// Walk calls fn for d and every descendant, depth-first, parent before
// children, in declaration order.
func (d *Dependency) Walk(fn func(dep *Dependency, depth int)) {
	var walk func(n *Dependency, depth int)
	walk = func(n *Dependency, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(d, 0)
}

// Find returns the first node (d included) whose GroupArtifact matches ga,
// or nil if none does.
func (d *Dependency) Find(ga pom.GroupArtifact) *Dependency {
	var found *Dependency
	d.Walk(func(n *Dependency, _ int) {
		if found == nil && n.Coordinate.GroupArtifact == ga {
			found = n
		}
	})
	return found
}

// String renders d as a box-drawing tree, root first, depth-first.
// Nearest-wins dedup means every node has exactly one parent, so no
// back-reference lines are ever needed.
func (d *Dependency) String() string {
	var b strings.Builder
	var walk func(n *Dependency, prefix1, prefix2 string)
	walk = func(n *Dependency, prefix1, prefix2 string) {
		fmt.Fprint(&b, prefix1)
		fmt.Fprintf(&b, "%s", n.Coordinate)
		if n.Scope != scope.None && n.Scope != scope.Compile {
			fmt.Fprintf(&b, " (%s)", n.Scope)
		}
		if n.Optional {
			fmt.Fprint(&b, " (optional)")
		}
		if n.Error != "" {
			fmt.Fprintf(&b, " ERROR: %s", n.Error)
		}
		fmt.Fprintln(&b)
		for i, c := range n.Children {
			p1, p2 := "├─ ", "│  "
			if i == len(n.Children)-1 {
				p1, p2 = "└─ ", "   "
			}
			walk(c, prefix2+p1, prefix2+p2)
		}
	}
	walk(d, "", "")
	return b.String()
}
