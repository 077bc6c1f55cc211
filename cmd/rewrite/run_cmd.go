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

package main

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/escardin/rewrite/env"
	"github.com/escardin/rewrite/pom"
	"github.com/escardin/rewrite/recipe"
)

// pomDocument wraps pom.Project with the root element name encoding/xml
// can't infer on its own (Project carries no XMLName; every sub-element
// tag is already declared on its own fields).
type pomDocument struct {
	XMLName xml.Name `xml:"project"`
	pom.Project
}

func newRunCmd() *cobra.Command {
	var workspace string
	var maxCacheBytes int
	var repoURLs []string
	var recipeNames []string
	var yamlFiles []string
	var out string

	cmd := &cobra.Command{
		Use:   "run <pom.xml>",
		Short: "Run activated recipes against a POM and print the rewritten manifest",
		Long: `run loads recipes from the built-in registry plus any --recipe-file YAML
documents, activates the recipes named by --recipe in order (unmatched
names are silently skipped), and runs the resulting chain against the
given POM.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(recipeNames) == 0 {
				return fmt.Errorf("rewrite: at least one --recipe is required")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("rewrite: read %s: %w", args[0], err)
			}
			var doc pomDocument
			if err := xml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("rewrite: parse %s: %w", args[0], err)
			}

			client, closer, err := newDownloadClient(workspace, maxCacheBytes, repoURLs)
			if err != nil {
				return err
			}
			defer closer.Close()

			rc := &recipe.Context{Versions: client}

			loaders := []env.ResourceLoader{env.NewClasspathLoader(rc, nil)}
			for _, f := range yamlFiles {
				l, err := env.LoadYAMLFile(f)
				if err != nil {
					return fmt.Errorf("rewrite: load %s: %w", f, err)
				}
				loaders = append(loaders, l)
			}
			home, err := env.LoadHomeConfig()
			if err != nil {
				return fmt.Errorf("rewrite: load home config: %w", err)
			}
			loaders = append(loaders, home)

			e := env.New(rc, loaders...)
			activated, ok := e.ActivateRecipes(recipeNames)
			if !ok {
				return fmt.Errorf("rewrite: none of %v matched a loaded recipe", recipeNames)
			}

			result, err := recipe.Run(cmd.Context(), activated, &doc.Project)
			if err != nil {
				return fmt.Errorf("rewrite: run: %w", err)
			}
			doc.Project = *result

			rewritten, err := xml.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("rewrite: marshal result: %w", err)
			}

			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(rewritten))
				return nil
			}
			return os.WriteFile(out, rewritten, 0o644)
		},
	}
	cmd.Flags().StringVar(&workspace, "workspace", "", "directory holding the persistent cache (bbolt); empty uses an in-memory cache")
	cmd.Flags().IntVar(&maxCacheBytes, "max-cache-entries", 0, "bound on in-memory cache size when --workspace is unset (0 = unbounded)")
	cmd.Flags().StringSliceVar(&repoURLs, "repo", []string{"https://repo.maven.apache.org/maven2"}, "repository URLs to query, in order")
	cmd.Flags().StringSliceVar(&recipeNames, "recipe", nil, "fully qualified recipe name to activate (repeatable, run in order given)")
	cmd.Flags().StringSliceVar(&yamlFiles, "recipe-file", nil, "declarative recipe YAML file to load in addition to ~/.rewrite/rewrite.yml (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "write the rewritten POM here instead of stdout")
	return cmd
}
