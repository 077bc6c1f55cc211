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

	"github.com/escardin/rewrite/pom"
	"github.com/escardin/rewrite/resolver"
)

func newResolveCmd() *cobra.Command {
	var workspace string
	var maxCacheBytes int
	var repoURLs []string

	cmd := &cobra.Command{
		Use:   "resolve <pom.xml>",
		Short: "Resolve a POM's full transitive dependency graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("rewrite: read %s: %w", args[0], err)
			}
			var root pom.Project
			if err := xml.Unmarshal(data, &root); err != nil {
				return fmt.Errorf("rewrite: parse %s: %w", args[0], err)
			}

			client, closer, err := newDownloadClient(workspace, maxCacheBytes, repoURLs)
			if err != nil {
				return err
			}
			defer closer.Close()

			coord := pom.Coordinate{
				GroupArtifact: root.ProjectKey.GroupArtifact(),
				Version:       string(root.Version),
			}
			g, err := resolver.Resolve(cmd.Context(), client, coord)
			if err != nil {
				return fmt.Errorf("rewrite: resolve: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), g.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&workspace, "workspace", "", "directory holding the persistent cache (bbolt); empty uses an in-memory cache")
	cmd.Flags().IntVar(&maxCacheBytes, "max-cache-entries", 0, "bound on in-memory cache size when --workspace is unset (0 = unbounded)")
	cmd.Flags().StringSliceVar(&repoURLs, "repo", []string{"https://repo.maven.apache.org/maven2"}, "repository URLs to query, in order")
	return cmd
}
