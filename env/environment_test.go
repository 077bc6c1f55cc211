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

import (
	"context"
	"testing"

	"github.com/escardin/rewrite/pom"
	"github.com/escardin/rewrite/recipe"
	"github.com/escardin/rewrite/visitor"
)

func testProject() *pom.Project {
	return &pom.Project{
		ProjectKey: pom.ProjectKey{
			GroupID:    "com.example",
			ArtifactID: "widget",
			Version:    "1.0",
		},
	}
}

type fixedLoader struct {
	recipes []*recipe.Recipe
	decls   []*recipe.DeclarativeRecipe
	styles  []Style
}

func (f fixedLoader) Recipes() ([]*recipe.Recipe, error)                       { return f.recipes, nil }
func (f fixedLoader) DeclarativeRecipes() ([]*recipe.DeclarativeRecipe, error) { return f.decls, nil }
func (f fixedLoader) Styles() ([]Style, error)                                { return f.styles, nil }

func noopRecipe(name string, order *[]string) *recipe.Recipe {
	return recipe.New(name, name, name, func(context.Context) (*visitor.Visitor, error) {
		*order = append(*order, name)
		return &visitor.Visitor{}, nil
	})
}

// A classpath-style loader supplies N and O directly; a YAML-style loader
// supplies declarative M referencing them by name, and a second
// declarative M2 referencing an unknown Q.
func TestEnvironmentListRecipesResolvesDeclarativeAgainstUnion(t *testing.T) {
	var order []string
	n := noopRecipe("com.example.N", &order)
	o := noopRecipe("com.example.O", &order)

	yamlDoc := []byte(`
type: specs.openrewrite.org/v1beta/recipe
name: com.example.M
recipeList:
  - com.example.N
  - com.example.O
---
type: specs.openrewrite.org/v1beta/recipe
name: com.example.M2
recipeList:
  - com.example.Q
`)
	yamlLoader, err := NewYAMLLoader(yamlDoc)
	if err != nil {
		t.Fatal(err)
	}

	e := New(nil, fixedLoader{recipes: []*recipe.Recipe{n, o}}, yamlLoader)
	recipes, errs := e.ListRecipes()

	names := map[string]bool{}
	for _, r := range recipes {
		names[r.Name()] = true
	}
	if !names["com.example.N"] || !names["com.example.O"] || !names["com.example.M"] {
		t.Fatalf("recipes = %v, want N, O and M present", names)
	}
	if names["com.example.M2"] {
		t.Fatalf("M2 should not resolve (unknown Q), got it in recipes")
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly one (for M2)", errs)
	}
}

func TestEnvironmentActivateRecipesSkipsUnmatchedNames(t *testing.T) {
	var order []string
	n := noopRecipe("com.example.N", &order)
	e := New(nil, fixedLoader{recipes: []*recipe.Recipe{n}})

	root, ok := e.ActivateRecipes([]string{"com.example.N", "com.example.DoesNotExist"})
	if !ok {
		t.Fatal("expected activation to succeed with at least one matched name")
	}
	if _, err := recipe.Run(context.Background(), root, testProject()); err != nil {
		t.Fatal(err)
	}
	if len(order) != 1 || order[0] != "com.example.N" {
		t.Fatalf("order = %v, want [com.example.N]", order)
	}
}

func TestEnvironmentActivateRecipesAllUnmatched(t *testing.T) {
	e := New(nil, fixedLoader{})
	_, ok := e.ActivateRecipes([]string{"nope"})
	if ok {
		t.Fatal("expected activation to fail when nothing matches")
	}
}

func TestEnvironmentActivateStylesSkipsUnmatchedNames(t *testing.T) {
	e := New(nil, fixedLoader{styles: []Style{{Name: "checkstyle"}}})
	styles, err := e.ActivateStyles([]string{"checkstyle", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(styles) != 1 || styles[0].Name != "checkstyle" {
		t.Fatalf("styles = %v, want [checkstyle]", styles)
	}
}
