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
	"errors"
	"os"
	"path/filepath"

	"github.com/escardin/rewrite/recipe"
)

// emptyLoader contributes nothing; used when ~/.rewrite/rewrite.yml is
// absent, which is not an error.
type emptyLoader struct{}

func (emptyLoader) Recipes() ([]*recipe.Recipe, error)                       { return nil, nil }
func (emptyLoader) DeclarativeRecipes() ([]*recipe.DeclarativeRecipe, error) { return nil, nil }
func (emptyLoader) Styles() ([]Style, error)                                { return nil, nil }

// LoadHomeConfig loads ~/.rewrite/rewrite.yml if it exists, returning a
// loader that contributes nothing (rather than an error) when it doesn't.
func LoadHomeConfig() (ResourceLoader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return emptyLoader{}, nil
	}
	path := filepath.Join(home, ".rewrite", "rewrite.yml")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return emptyLoader{}, nil
	}
	return LoadYAMLFile(path)
}
