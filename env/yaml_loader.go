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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/escardin/rewrite/recipe"
)

// styleDoc is the YAML shape for a named style descriptor, sharing the
// declarative recipe document's "type" discriminator field.
type styleDoc struct {
	Type   string         `yaml:"type"`
	Name   string         `yaml:"name"`
	Config map[string]any `yaml:",inline"`
}

// YAMLLoader loads declarative recipes and named styles from a single
// YAML source, which may contain multiple "---"-separated documents
// mixing recipe and style definitions.
type YAMLLoader struct {
	decls  []*recipe.DeclarativeRecipe
	styles []Style
}

// NewYAMLLoader parses data, classifying each document by its "type"
// field (a style document carries "specs.openrewrite.org/v1beta/style";
// anything else recognized by recipe.ParseDeclarativeYAML is a recipe
// document).
func NewYAMLLoader(data []byte) (*YAMLLoader, error) {
	decls, err := recipe.ParseDeclarativeYAML(data)
	if err != nil {
		return nil, err
	}
	var docs []styleDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc styleDoc
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("env: parse style YAML: %w", err)
		}
		if doc.Type == "specs.openrewrite.org/v1beta/style" && doc.Name != "" {
			docs = append(docs, doc)
		}
	}
	styles := make([]Style, 0, len(docs))
	for _, d := range docs {
		delete(d.Config, "type")
		delete(d.Config, "name")
		styles = append(styles, Style{Name: d.Name, Config: d.Config})
	}
	return &YAMLLoader{decls: decls, styles: styles}, nil
}

// LoadYAMLFile reads and parses path (~/.rewrite/rewrite.yml, or any
// other recipe YAML file the caller points at).
func LoadYAMLFile(path string) (*YAMLLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("env: read %s: %w", path, err)
	}
	return NewYAMLLoader(data)
}

func (y *YAMLLoader) Recipes() ([]*recipe.Recipe, error) { return nil, nil }

func (y *YAMLLoader) DeclarativeRecipes() ([]*recipe.DeclarativeRecipe, error) {
	return y.decls, nil
}

func (y *YAMLLoader) Styles() ([]Style, error) { return y.styles, nil }
