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
	"fmt"

	"github.com/escardin/rewrite/mavenver"
	"github.com/escardin/rewrite/pom"
	"github.com/escardin/rewrite/visitor"
)

// UpgradeDependencyVersionName is this recipe's registered, declarative
// recipeList name.
const UpgradeDependencyVersionName = "org.openrewrite.maven.UpgradeDependencyVersion"

func init() {
	Register(UpgradeDependencyVersionName, func(params map[string]any, rc *Context) (*Recipe, error) {
		groupID, _ := params["groupId"].(string)
		artifactID, _ := params["artifactId"].(string)
		version, _ := params["version"].(string)
		pattern, _ := params["versionPattern"].(string)
		return UpgradeDependencyVersion(groupID, artifactID, version, pattern, rc.Versions)
	})
}

// UpgradeDependencyVersion rewrites a <dependency> tag matching
// groupID:artifactID to the best version matching versionSelector that is
// newer than its currently declared version. A dependency with no
// explicit <version> (relying on dependencyManagement) is left alone —
// rewriting it here would fabricate a version the POM's inheritance
// didn't actually declare.
func UpgradeDependencyVersion(groupID, artifactID, versionSelector, metadataPattern string, fetcher VersionFetcher) (*Recipe, error) {
	if groupID == "" || artifactID == "" {
		return nil, fmt.Errorf("recipe: UpgradeDependencyVersion requires groupId and artifactId")
	}
	constraint, err := mavenver.Parse(versionSelector)
	if err != nil {
		return nil, err
	}
	var pattern *mavenver.MetadataPattern
	if metadataPattern != "" {
		pattern, err = mavenver.NewMetadataPattern(metadataPattern)
		if err != nil {
			return nil, fmt.Errorf("recipe: UpgradeDependencyVersion: %w", err)
		}
	}

	description := fmt.Sprintf("Upgrade %s:%s to a version matching %q.", groupID, artifactID, versionSelector)
	return New(UpgradeDependencyVersionName, "Upgrade dependency version", description, func(ctx context.Context) (*visitor.Visitor, error) {
		return &visitor.Visitor{
			VisitDependency: func(_ *visitor.Context, d *pom.Dependency) *pom.Dependency {
				if string(d.GroupID) != groupID || string(d.ArtifactID) != artifactID || d.Version == "" {
					return d
				}
				ga := pom.GroupArtifact{GroupID: groupID, ArtifactID: artifactID}
				versions, err := fetcher.AvailableVersions(ctx, ga)
				if err != nil {
					return d
				}
				best, ok := constraint.Best(string(d.Version), versions, pattern)
				if !ok {
					return d
				}
				next := *d
				next.Version = pom.String(best)
				return &next
			},
		}, nil
	}), nil
}
