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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/escardin/rewrite/download"
	"github.com/escardin/rewrite/pom"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the POM and metadata cache backing resolution",
	}
	cmd.AddCommand(newCacheMetadataCmd(), newCachePomCmd())
	return cmd
}

func newCacheMetadataCmd() *cobra.Command {
	var workspace string
	var maxCacheBytes int
	var repoURLs []string

	cmd := &cobra.Command{
		Use:   "metadata <groupId:artifactId>",
		Short: "Report, per configured repository, whether a package's maven-metadata.xml is cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ga, err := parseGroupArtifact(args[0])
			if err != nil {
				return err
			}
			client, closer, err := newDownloadClient(workspace, maxCacheBytes, repoURLs)
			if err != nil {
				return err
			}
			defer closer.Close()

			printCacheStatuses(cmd, client.InspectMetadata(cmd.Context(), ga))
			return nil
		},
	}
	addRepoFlags(cmd, &workspace, &maxCacheBytes, &repoURLs)
	return cmd
}

func newCachePomCmd() *cobra.Command {
	var workspace string
	var maxCacheBytes int
	var repoURLs []string

	cmd := &cobra.Command{
		Use:   "pom <groupId:artifactId:version>",
		Short: "Report, per configured repository, whether a POM is cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := parseCoordinate(args[0])
			if err != nil {
				return err
			}
			client, closer, err := newDownloadClient(workspace, maxCacheBytes, repoURLs)
			if err != nil {
				return err
			}
			defer closer.Close()

			printCacheStatuses(cmd, client.InspectPom(cmd.Context(), coord))
			return nil
		},
	}
	addRepoFlags(cmd, &workspace, &maxCacheBytes, &repoURLs)
	return cmd
}

func printCacheStatuses(cmd *cobra.Command, statuses []download.RepoCacheStatus) {
	for _, s := range statuses {
		if s.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: error: %v\n", s.Repo.URL, s.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", s.Repo.URL, statusLabel(s))
	}
}

func statusLabel(s download.RepoCacheStatus) string {
	switch {
	case s.Unavailable:
		return "unavailable (negative, cached upstream answer)"
	case s.Cached:
		return "cached"
	case s.Updated:
		return "fetched (cache miss, now stored)"
	default:
		return "unknown"
	}
}

func addRepoFlags(cmd *cobra.Command, workspace *string, maxCacheBytes *int, repoURLs *[]string) {
	cmd.Flags().StringVar(workspace, "workspace", "", "directory holding the persistent cache (bbolt); empty uses an in-memory cache")
	cmd.Flags().IntVar(maxCacheBytes, "max-cache-entries", 0, "bound on in-memory cache size when --workspace is unset (0 = unbounded)")
	cmd.Flags().StringSliceVar(repoURLs, "repo", []string{"https://repo.maven.apache.org/maven2"}, "repository URLs to query, in order")
}

func parseGroupArtifact(s string) (pom.GroupArtifact, error) {
	g, a, ok := strings.Cut(s, ":")
	if !ok {
		return pom.GroupArtifact{}, fmt.Errorf("rewrite: %q is not a groupId:artifactId", s)
	}
	return pom.GroupArtifact{GroupID: g, ArtifactID: a}, nil
}

func parseCoordinate(s string) (pom.Coordinate, error) {
	return pom.ParseCoordinate(s)
}
