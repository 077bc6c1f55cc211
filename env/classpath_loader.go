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

package env

import "github.com/escardin/rewrite/recipe"

// ClasspathLoader enumerates the recipes a build linked in: it builds one
// Recipe per name registered via recipe.Register, using params (if any
// are given for that name) the caller supplies. A statically-registered
// factory set is the Go analogue of scanning a JVM classpath for recipe
// classes.
type ClasspathLoader struct {
	rc     *recipe.Context
	params map[string]map[string]any
	styles []Style
}

// NewClasspathLoader builds a loader over every name registered in the
// recipe package, using rc for any runtime collaborators those recipes
// need and params for any construction parameters a given name requires
// (names needing none, or not present in params, are built with a nil
// params map).
func NewClasspathLoader(rc *recipe.Context, params map[string]map[string]any, styles ...Style) *ClasspathLoader {
	return &ClasspathLoader{rc: rc, params: params, styles: styles}
}

func (c *ClasspathLoader) Recipes() ([]*recipe.Recipe, error) {
	var out []*recipe.Recipe
	for _, name := range recipe.RegisteredNames() {
		factory, ok := recipe.Lookup(name)
		if !ok {
			continue
		}
		r, err := factory(c.params[name], c.rc)
		if err != nil {
			// A recipe that fails construction (missing/invalid params) is
			// skipped, not fatal to the whole scan.
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *ClasspathLoader) DeclarativeRecipes() ([]*recipe.DeclarativeRecipe, error) {
	return nil, nil
}

func (c *ClasspathLoader) Styles() ([]Style, error) {
	return c.styles, nil
}
