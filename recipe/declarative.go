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

package recipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/escardin/rewrite/visitor"
)

// ErrUnresolvedRecipeRef is returned by Initialize when a DeclarativeRecipe's
// recipeList names a recipe that was never loaded.
type ErrUnresolvedRecipeRef struct {
	Recipe  string
	Missing []string
}

func (e *ErrUnresolvedRecipeRef) Error() string {
	return fmt.Sprintf("recipe %s: unresolved recipeList references: %s", e.Recipe, strings.Join(e.Missing, ", "))
}

// recipeListEntry is one element of a declarative recipeList: either a
// bare name ("- org.openrewrite.maven.UpgradeParentVersion") or a
// single-key map of name to params ("- org.openrewrite.maven...: {groupId: ...}").
type recipeListEntry struct {
	Name   string
	Params map[string]any
}

func (e *recipeListEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.Name)
	case yaml.MappingNode:
		var m map[string]map[string]any
		if err := node.Decode(&m); err != nil {
			return err
		}
		for name, params := range m {
			e.Name = name
			e.Params = params
			break
		}
		return nil
	default:
		return fmt.Errorf("recipe: unsupported recipeList entry kind %v", node.Kind)
	}
}

// DeclarativeRecipeType is the "type" discriminator a declarative recipe
// YAML document carries.
const DeclarativeRecipeType = "specs.openrewrite.org/v1beta/recipe"

// declarativeSpec is the raw YAML document shape.
type declarativeSpec struct {
	Type        string             `yaml:"type"`
	Name        string             `yaml:"name"`
	DisplayName string             `yaml:"displayName"`
	Description string             `yaml:"description"`
	RecipeList  []recipeListEntry  `yaml:"recipeList"`
	Tags        map[string]any     `yaml:",inline"`
}

// DeclarativeRecipe is a recipe assembled from a YAML document that
// references other recipes by name. It is unusable until
// Initialize resolves every name in its recipeList against the full set
// of recipes an Environment has loaded.
type DeclarativeRecipe struct {
	name        string
	displayName string
	description string
	entries     []recipeListEntry
}

// ParseDeclarativeYAML parses a (possibly multi-document, "---"-separated)
// YAML source into its declarative recipes.
func ParseDeclarativeYAML(data []byte) ([]*DeclarativeRecipe, error) {
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	var out []*DeclarativeRecipe
	for {
		var spec declarativeSpec
		err := dec.Decode(&spec)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("recipe: parse declarative YAML: %w", err)
		}
		if spec.Name == "" {
			continue
		}
		// Documents carrying another type (e.g. a style definition sharing
		// the same file) are someone else's to parse.
		if spec.Type != "" && spec.Type != DeclarativeRecipeType {
			continue
		}
		out = append(out, &DeclarativeRecipe{
			name:        spec.Name,
			displayName: spec.DisplayName,
			description: spec.Description,
			entries:     spec.RecipeList,
		})
	}
	return out, nil
}

// Name returns the declarative recipe's fully qualified name.
func (d *DeclarativeRecipe) Name() string { return d.name }

// substituteParams replaces ${name} placeholders in string parameter values
// with entries from props, the Context's recipe-parameter Properties map.
// Placeholders naming no property are left intact; non-string values pass
// through untouched.
func substituteParams(params map[string]any, props map[string]string) map[string]any {
	if len(params) == 0 || len(props) == 0 {
		return params
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if s, ok := v.(string); ok && strings.Contains(s, "${") {
			for name, value := range props {
				s = strings.ReplaceAll(s, "${"+name+"}", value)
			}
			out[k] = s
			continue
		}
		out[k] = v
	}
	return out
}

// Initialize resolves every recipeList entry against known (already
// loaded, already-resolved) recipes by name, falling back to the
// Register/Lookup registry (built with the entry's own params, if any) for
// names known does not hold, and
// composes the result into a single runnable *Recipe chained in
// recipeList order. known must not itself contain unresolved
// DeclarativeRecipes — callers initialize in dependency order, or simply
// retry until no progress is made, the way env.Environment.ListRecipes
// does.
func (d *DeclarativeRecipe) Initialize(known map[string]*Recipe, rc *Context) (*Recipe, error) {
	if len(d.entries) == 0 {
		return nil, fmt.Errorf("recipe %s: empty recipeList", d.name)
	}

	var missing []string
	var resolved []*Recipe
	for _, entry := range d.entries {
		if r, ok := known[entry.Name]; ok {
			resolved = append(resolved, r)
			continue
		}
		if factory, ok := Lookup(entry.Name); ok {
			r, err := factory(substituteParams(entry.Params, rc.Properties), rc)
			if err != nil {
				return nil, fmt.Errorf("recipe %s: building %s: %w", d.name, entry.Name, err)
			}
			resolved = append(resolved, r)
			continue
		}
		missing = append(missing, entry.Name)
	}
	if len(missing) > 0 {
		return nil, &ErrUnresolvedRecipeRef{Recipe: d.name, Missing: missing}
	}

	// Wrap rather than rename resolved[0] in place: resolved entries may be
	// shared (looked up from known by name), and another declarative
	// recipe may still reference them under their original name.
	displayName := d.displayName
	if displayName == "" {
		displayName = d.name
	}
	wrapper := New(d.name, displayName, d.description, func(context.Context) (*visitor.Visitor, error) {
		return &visitor.Visitor{}, nil
	})
	wrapper.next = append(wrapper.next, resolved...)
	return wrapper, nil
}
