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
Package recipe implements the transformation units that rewrite a Maven
manifest: a Recipe is a named, already-validated transformation built
around a visitor.Visitor, and recipes compose with DoNext into a pipeline
that runs each chained visitor to completion in order, handing the
(possibly rewritten) tree to the next.
*/
package recipe

import (
	"context"
	"fmt"

	"github.com/escardin/rewrite/pom"
	"github.com/escardin/rewrite/visitor"
)

// Recipe is a validated unit of transformation. Construction functions in
// this package (UpgradeParentVersion, UpgradeDependencyVersion, ...)
// validate their parameters (coordinate syntax, version selector syntax)
// before returning a *Recipe, so a Recipe value in hand is always safe to
// run.
type Recipe struct {
	name        string
	displayName string
	description string
	newVisitor  func(ctx context.Context) (*visitor.Visitor, error)
	next        []*Recipe
}

// Name is the recipe's fully qualified name, e.g.
// "org.openrewrite.maven.UpgradeParentVersion".
func (r *Recipe) Name() string { return r.name }

// DisplayName is the short human-facing label.
func (r *Recipe) DisplayName() string { return r.displayName }

// Description is the long-form human-facing description.
func (r *Recipe) Description() string { return r.description }

// DoNext appends next to the chain run after r. It returns r so calls can
// be built fluently: base.DoNext(a).DoNext(b).
func (r *Recipe) DoNext(next *Recipe) *Recipe {
	r.next = append(r.next, next)
	return r
}

// Chain returns r and every recipe reachable from it via DoNext, in
// run order (depth-first, matching declaration order).
func (r *Recipe) Chain() []*Recipe {
	chain := []*Recipe{r}
	for _, n := range r.next {
		chain = append(chain, n.Chain()...)
	}
	return chain
}

// Run drives r's full chain over p: for each recipe in Chain() order, it
// builds that recipe's visitor and runs it (including its own
// doAfterVisit follow-ups) to completion, then passes the result to the
// next recipe. A visitor construction or traversal failure aborts the
// whole chain for this tree without touching any other tree the caller
// may be processing.
func Run(ctx context.Context, r *Recipe, p *pom.Project) (*pom.Project, error) {
	for _, rec := range r.Chain() {
		v, err := rec.newVisitor(ctx)
		if err != nil {
			return p, fmt.Errorf("recipe %s: %w", rec.name, err)
		}
		p, err = visitor.Run(v, p)
		if err != nil {
			return p, fmt.Errorf("recipe %s: %w", rec.name, err)
		}
	}
	return p, nil
}

// Chain composes recipes into a single root Recipe named name that runs
// each of them in order. Unlike calling DoNext directly on one of the
// recipes, Chain never mutates any of its arguments — each is shared
// state that may also be activated on its own or chained into a
// different root elsewhere (env.Environment.ActivateRecipes calls Chain
// for exactly this reason).
func Chain(name string, recipes ...*Recipe) *Recipe {
	root := New(name, name, "", func(context.Context) (*visitor.Visitor, error) {
		return &visitor.Visitor{}, nil
	})
	root.next = append(root.next, recipes...)
	return root
}

// New builds a Recipe directly from a visitor factory. It is the
// low-level constructor declarative.go and the concrete recipes in this
// package build on; most callers want one of the named constructors
// instead.
func New(name, displayName, description string, newVisitor func(ctx context.Context) (*visitor.Visitor, error)) *Recipe {
	return &Recipe{name: name, displayName: displayName, description: description, newVisitor: newVisitor}
}
