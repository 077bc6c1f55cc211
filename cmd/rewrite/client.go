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
	"io"
	"path/filepath"

	"github.com/escardin/rewrite/cache"
	"github.com/escardin/rewrite/download"
	"github.com/escardin/rewrite/pom"
)

// newDownloadClient wires cache.Open's chosen backend into a
// download.Client over the given repository URLs, giving every
// subcommand the same resolution entry point. A workspace may carry an
// unresolvable.txt listing coordinates that should short-circuit to a
// negative answer without ever being fetched. The returned io.Closer
// must be closed to release the workspace's exclusive file lock (a
// no-op for the in-memory backend).
func newDownloadClient(workspace string, maxCacheEntries int, repoURLs []string) (*download.Client, io.Closer, error) {
	pc, closer, err := cache.Open(workspace, maxCacheEntries)
	if err != nil {
		return nil, nil, fmt.Errorf("rewrite: open cache: %w", err)
	}
	if workspace != "" {
		set, err := cache.LoadUnresolvableFile(filepath.Join(workspace, "unresolvable.txt"))
		if err != nil {
			closer.Close()
			return nil, nil, fmt.Errorf("rewrite: %w", err)
		}
		pc = cache.WithUnresolvable(set, pc)
	}
	repos := make([]pom.Repository, 0, len(repoURLs))
	for i, u := range repoURLs {
		id := fmt.Sprintf("repo-%d", i)
		if i == 0 {
			id = pom.DefaultRepositoryID
		}
		repos = append(repos, pom.Repository{ID: pom.String(id), URL: pom.String(u)})
	}
	return download.New(repos, pc, download.NewHTTPTransport()), closer, nil
}
