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

// UpgradeParentVersionName is the fully qualified recipe name registered
// for this recipe, and the name a declarative recipeList entry uses to
// reference it.
const UpgradeParentVersionName = "org.openrewrite.maven.UpgradeParentVersion"

func init() {
	Register(UpgradeParentVersionName, func(params map[string]any, rc *Context) (*Recipe, error) {
		groupID, _ := params["groupId"].(string)
		artifactID, _ := params["artifactId"].(string)
		version, _ := params["version"].(string)
		pattern, _ := params["versionPattern"].(string)
		return UpgradeParentVersion(groupID, artifactID, version, pattern, rc.Versions)
	})
}

// UpgradeParentVersion rewrites a POM's <parent><version> tag to the best
// version matching versionSelector that is newer than the currently
// declared one, leaving the tag untouched when no such version exists.
// groupID/artifactID select which parent coordinate this recipe applies
// to; versionSelector is parsed with mavenver.Parse at construction time,
// so an invalid selector surfaces immediately as ErrInvalidVersionSelector
// rather than during a later visit.
func UpgradeParentVersion(groupID, artifactID, versionSelector, metadataPattern string, fetcher VersionFetcher) (*Recipe, error) {
	if groupID == "" || artifactID == "" {
		return nil, fmt.Errorf("recipe: UpgradeParentVersion requires groupId and artifactId")
	}
	constraint, err := mavenver.Parse(versionSelector)
	if err != nil {
		return nil, err
	}
	var pattern *mavenver.MetadataPattern
	if metadataPattern != "" {
		pattern, err = mavenver.NewMetadataPattern(metadataPattern)
		if err != nil {
			return nil, fmt.Errorf("recipe: UpgradeParentVersion: %w", err)
		}
	}

	description := fmt.Sprintf("Upgrade the parent %s:%s to a version matching %q.", groupID, artifactID, versionSelector)
	return New(UpgradeParentVersionName, "Upgrade parent version", description, func(ctx context.Context) (*visitor.Visitor, error) {
		return &visitor.Visitor{
			VisitParent: func(_ *visitor.Context, p *pom.Parent) *pom.Parent {
				if string(p.GroupID) != groupID || string(p.ArtifactID) != artifactID {
					return p
				}
				versions, err := fetcher.AvailableVersions(ctx, pom.GroupArtifact{GroupID: groupID, ArtifactID: artifactID})
				if err != nil {
					return p
				}
				best, ok := constraint.Best(string(p.Version), versions, pattern)
				if !ok {
					return p
				}
				next := *p
				next.Version = pom.String(best)
				return &next
			},
		}, nil
	}), nil
}
