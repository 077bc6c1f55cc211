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

	"github.com/escardin/rewrite/pom"
)

// VersionFetcher is the seam a recipe uses to ask "what versions exist"
// without depending on download.Client's full surface.
// *download.Client satisfies it via AvailableVersions.
type VersionFetcher interface {
	AvailableVersions(ctx context.Context, ga pom.GroupArtifact) ([]string, error)
}

// Context carries the runtime collaborators a Factory needs to build a
// Recipe: the version fetcher backing any "find a newer version" recipe,
// and the Properties map substituted into declarative recipeList params.
type Context struct {
	Versions   VersionFetcher
	Properties map[string]string
}
