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

package pom

import "strings"

// DefaultRepositoryID is the id Maven assigns the central repository when a
// POM declares none of its own.
const DefaultRepositoryID = "central"

// Normalize returns r with its URL normalized: http upgraded to https and
// any trailing slash stripped. Normalization is idempotent:
// Normalize(Normalize(r)) == Normalize(r). Mirror and redirect configuration
// is out of scope (an IDE/build-tool layering concern above this resolver).
func (r Repository) Normalize() Repository {
	u := strings.TrimSpace(string(r.URL))
	if after, ok := strings.CutPrefix(u, "http://"); ok {
		u = "https://" + after
	}
	u = strings.TrimRight(u, "/")
	r.URL = String(u)
	if r.ID == "" {
		r.ID = DefaultRepositoryID
	}
	return r
}

// Equal reports whether two repositories are equal once normalized: same
// normalized URL, id, and release/snapshot policy flags.
func (r Repository) Equal(other Repository) bool {
	a, b := r.Normalize(), other.Normalize()
	return a.ID == b.ID && a.URL == b.URL &&
		a.Releases.Enabled.Boolean() == b.Releases.Enabled.Boolean() &&
		a.Snapshots.Enabled.Boolean() == b.Snapshots.Enabled.Boolean()
}

// GroupArtifactRepository is the cache key for a per-repository POM or
// metadata lookup: a GroupArtifact scoped to one (normalized) repository.
type GroupArtifactRepository struct {
	Repository    string // the normalized repository URL
	GroupArtifact GroupArtifact
}

// Key builds the GroupArtifactRepository cache key for ga within repo. repo
// should already be normalized; Key does not normalize it again so repeated
// lookups with the same normalized Repository value share one key.
func Key(repo Repository, ga GroupArtifact) GroupArtifactRepository {
	return GroupArtifactRepository{
		Repository:    string(repo.URL),
		GroupArtifact: ga,
	}
}

// Path returns the repository-relative path to coord's POM file, e.g.
// "org/example/foo/1.2.3/foo-1.2.3.pom".
func (c Coordinate) Path() string {
	groupPath := strings.ReplaceAll(c.GroupID, ".", "/")
	return groupPath + "/" + c.ArtifactID + "/" + c.Version + "/" + c.ArtifactID + "-" + c.Version + ".pom"
}

// MetadataPath returns the repository-relative path to the maven-metadata.xml
// describing all known versions of ga.
func (ga GroupArtifact) MetadataPath() string {
	groupPath := strings.ReplaceAll(ga.GroupID, ".", "/")
	return groupPath + "/" + ga.ArtifactID + "/maven-metadata.xml"
}
