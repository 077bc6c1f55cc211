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
Package visitor implements the tree-visitor core that recipes use to read
and rewrite a Maven manifest: a struct of per-node-kind function fields
dispatched by the node's concrete type, not a class hierarchy of visitors,
plus a deferred follow-up queue (DoAfterVisit) drained after the current
traversal completes.
*/
package visitor

import (
	"errors"

	"github.com/escardin/rewrite/pom"
)

// maxFollowupDepth bounds the doAfterVisit queue so a visitor that keeps
// scheduling itself is reported rather than looping forever.
const maxFollowupDepth = 64

// ErrFollowupOverflow is returned by Run when more than maxFollowupDepth
// follow-up visitors are scheduled across a single traversal.
var ErrFollowupOverflow = errors.New("visitor: doAfterVisit queue exceeded depth bound")

// Context is the per-traversal execution context a Visitor's hooks receive.
// Its only state is the follow-up queue; Visitors are otherwise pure
// functions of the node they're given.
type Context struct {
	followups []*Visitor
}

// DoAfterVisit schedules v to run, in the order scheduled, once the current
// traversal of the tree completes.
func (c *Context) DoAfterVisit(v *Visitor) {
	c.followups = append(c.followups, v)
}

// Visitor is a set of per-node-kind hooks over a pom.Project tree. A nil
// hook leaves that node kind untouched ("recurse into children" is the
// default because Walk always descends regardless of whether a hook ran).
// A hook returning nil removes that node from its parent's slice (or, for
// VisitProject itself, aborts the traversal with a nil tree).
type Visitor struct {
	VisitProject    func(ctx *Context, p *pom.Project) *pom.Project
	VisitParent     func(ctx *Context, p *pom.Parent) *pom.Parent
	VisitDependency func(ctx *Context, d *pom.Dependency) *pom.Dependency
	VisitRepository func(ctx *Context, r *pom.Repository) *pom.Repository
	VisitProperty   func(ctx *Context, p *pom.Property) *pom.Property
}

// Walk applies v to p and its children, returning the (possibly replaced)
// project. It does not drain ctx's follow-up queue; callers use Run for a
// complete pass including follow-ups.
func (v *Visitor) Walk(ctx *Context, p *pom.Project) *pom.Project {
	if p == nil {
		return nil
	}
	if v.VisitProject != nil {
		p = v.VisitProject(ctx, p)
		if p == nil {
			return nil
		}
	}

	if v.VisitParent != nil {
		parent := p.Parent
		if np := v.VisitParent(ctx, &parent); np != nil {
			p.Parent = *np
		}
	}

	if v.VisitDependency != nil {
		deps := make([]pom.Dependency, 0, len(p.Dependencies))
		for i := range p.Dependencies {
			d := p.Dependencies[i]
			if nd := v.VisitDependency(ctx, &d); nd != nil {
				deps = append(deps, *nd)
			}
		}
		p.Dependencies = deps
	}

	if v.VisitRepository != nil {
		repos := make([]pom.Repository, 0, len(p.Repositories))
		for i := range p.Repositories {
			r := p.Repositories[i]
			if nr := v.VisitRepository(ctx, &r); nr != nil {
				repos = append(repos, *nr)
			}
		}
		p.Repositories = repos
	}

	if v.VisitProperty != nil {
		props := make([]pom.Property, 0, len(p.Properties.Properties))
		for i := range p.Properties.Properties {
			prop := p.Properties.Properties[i]
			if np := v.VisitProperty(ctx, &prop); np != nil {
				props = append(props, *np)
			}
		}
		p.Properties.Properties = props
	}

	return p
}

// Run walks v over p to completion, then drains any follow-up visitors v
// scheduled via ctx.DoAfterVisit, in the order they were scheduled, each
// one potentially scheduling further follow-ups of its own. It returns
// ErrFollowupOverflow (with the last successfully computed tree) if more
// than maxFollowupDepth follow-ups run.
func Run(v *Visitor, p *pom.Project) (*pom.Project, error) {
	ctx := &Context{}
	result := v.Walk(ctx, p)
	for depth := 0; len(ctx.followups) > 0; depth++ {
		if depth >= maxFollowupDepth {
			return result, ErrFollowupOverflow
		}
		next := ctx.followups[0]
		ctx.followups = ctx.followups[1:]
		result = next.Walk(ctx, result)
	}
	return result, nil
}
