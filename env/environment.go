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
Package env aggregates ResourceLoaders (the built-in recipe registry,
YAML files, ~/.rewrite/rewrite.yml) into one union of recipes and styles,
resolves declarative recipes' name references against that union, and
builds an activation chain from a list of names.
*/
package env

import (
	"fmt"

	"github.com/escardin/rewrite/recipe"
)

// Style is a named, loader-supplied style descriptor. Environment only
// needs to carry it by name for ActivateStyles, so Config is an opaque
// bag a consumer-side style applier interprets.
type Style struct {
	Name   string
	Config map[string]any
}

// ResourceLoader enumerates recipes and styles from one source: the
// built-in registry, a single YAML file, or a user-home config file.
type ResourceLoader interface {
	// Recipes returns already-usable recipes this loader contributes
	// directly (no further name resolution needed).
	Recipes() ([]*recipe.Recipe, error)
	// DeclarativeRecipes returns recipes this loader contributes that
	// still need Initialize against the full, unioned recipe set.
	DeclarativeRecipes() ([]*recipe.DeclarativeRecipe, error)
	// Styles returns the named style descriptors this loader contributes.
	Styles() ([]Style, error)
}

// Environment aggregates ResourceLoaders into one recipe/style catalog.
type Environment struct {
	loaders []ResourceLoader
	rc      *recipe.Context
}

// New builds an Environment over the given loaders. rc supplies the
// runtime collaborators (version fetchers, recipe-parameter properties)
// any parameterized recipe a loader or declarative recipeList entry
// constructs will need; it may be nil for environments that only load
// recipes with no runtime dependencies.
func New(rc *recipe.Context, loaders ...ResourceLoader) *Environment {
	if rc == nil {
		rc = &recipe.Context{}
	}
	return &Environment{loaders: loaders, rc: rc}
}

// ListRecipes returns the union of every loader's recipes, with
// declarative recipes initialized against that same union.
//
// Declarative recipes are initialized in a fixed-point loop so one
// declarative recipe may itself reference another: each pass resolves
// whatever it can against recipes resolved so far, and stops when a pass
// makes no further progress. Declarative recipes still unresolved at that
// point are reported, one error per recipe, alongside the recipes that did
// resolve.
func (e *Environment) ListRecipes() ([]*recipe.Recipe, []error) {
	byName := map[string]*recipe.Recipe{}
	var order []string
	var pending []*recipe.DeclarativeRecipe

	for _, l := range e.loaders {
		rs, err := l.Recipes()
		if err != nil {
			return nil, []error{fmt.Errorf("env: loading recipes: %w", err)}
		}
		for _, r := range rs {
			if _, exists := byName[r.Name()]; exists {
				continue
			}
			byName[r.Name()] = r
			order = append(order, r.Name())
		}
		decls, err := l.DeclarativeRecipes()
		if err != nil {
			return nil, []error{fmt.Errorf("env: loading declarative recipes: %w", err)}
		}
		pending = append(pending, decls...)
	}

	var errs []error
	for progress := true; progress && len(pending) > 0; {
		progress = false
		var stillPending []*recipe.DeclarativeRecipe
		for _, d := range pending {
			r, err := d.Initialize(byName, e.rc)
			if err != nil {
				stillPending = append(stillPending, d)
				continue
			}
			if _, exists := byName[r.Name()]; !exists {
				order = append(order, r.Name())
			}
			byName[r.Name()] = r
			progress = true
		}
		pending = stillPending
	}
	for _, d := range pending {
		_, err := d.Initialize(byName, e.rc)
		errs = append(errs, err)
	}

	recipes := make([]*recipe.Recipe, 0, len(order))
	for _, name := range order {
		recipes = append(recipes, byName[name])
	}
	return recipes, errs
}

// ListStyles returns the union of every loader's styles, first loader to
// contribute a given name wins, matching ListRecipes' own dedup rule.
func (e *Environment) ListStyles() ([]Style, error) {
	byName := map[string]Style{}
	var order []string
	for _, l := range e.loaders {
		styles, err := l.Styles()
		if err != nil {
			return nil, fmt.Errorf("env: loading styles: %w", err)
		}
		for _, s := range styles {
			if _, exists := byName[s.Name]; exists {
				continue
			}
			byName[s.Name] = s
			order = append(order, s.Name)
		}
	}
	out := make([]Style, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, nil
}

// ActivateRecipes builds a root recipe chaining every recipe in names, in
// input order. Names matching no loaded recipe are silently skipped. It
// returns (nil, false) only when names is empty or none of them resolve.
func (e *Environment) ActivateRecipes(names []string) (*recipe.Recipe, bool) {
	all, _ := e.ListRecipes()
	byName := make(map[string]*recipe.Recipe, len(all))
	for _, r := range all {
		byName[r.Name()] = r
	}

	var matched []*recipe.Recipe
	for _, name := range names {
		if r, ok := byName[name]; ok {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}
	return recipe.Chain("activated", matched...), true
}

// ActivateStyles builds the list of named styles, in input order,
// silently skipping names matching no loaded style, the same policy as
// ActivateRecipes.
func (e *Environment) ActivateStyles(names []string) ([]Style, error) {
	all, err := e.ListStyles()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Style, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}
	var out []Style
	for _, name := range names {
		if s, ok := byName[name]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
