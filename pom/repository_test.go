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

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		url  String
		want String
	}{
		{"http://repo.example/maven2", "https://repo.example/maven2"},
		{"https://repo.example/maven2/", "https://repo.example/maven2"},
		{"http://repo.example/maven2///", "https://repo.example/maven2"},
		{"https://repo.example/maven2", "https://repo.example/maven2"},
	}
	for _, tc := range tests {
		r := Repository{ID: "central", URL: tc.url}
		got := r.Normalize()
		if got.URL != tc.want {
			t.Errorf("Normalize(%s).URL = %s, want %s", tc.url, got.URL, tc.want)
		}
		again := got.Normalize()
		if again != got {
			t.Errorf("Normalize is not idempotent on %s: %+v != %+v", tc.url, again, got)
		}
	}
}

func TestNormalizeDefaultsID(t *testing.T) {
	r := Repository{URL: "https://repo.example/maven2"}
	if got := r.Normalize().ID; got != DefaultRepositoryID {
		t.Errorf("Normalize().ID = %s, want %s", got, DefaultRepositoryID)
	}
}

func TestRepositoryEqual(t *testing.T) {
	a := Repository{ID: "central", URL: "http://repo.example/maven2/"}
	b := Repository{ID: "central", URL: "https://repo.example/maven2"}
	if !a.Equal(b) {
		t.Errorf("repositories differing only by normalization should be equal")
	}
	c := Repository{ID: "central", URL: "https://repo.example/maven2", Snapshots: RepositoryPolicy{Enabled: "false"}}
	if a.Equal(c) {
		t.Errorf("repositories with different snapshot policies should differ")
	}
}

func TestCoordinatePaths(t *testing.T) {
	coord := Coordinate{
		GroupArtifact: GroupArtifact{GroupID: "org.example", ArtifactID: "foo"},
		Version:       "1.2.3",
	}
	if got, want := coord.Path(), "org/example/foo/1.2.3/foo-1.2.3.pom"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if got, want := coord.GroupArtifact.MetadataPath(), "org/example/foo/maven-metadata.xml"; got != want {
		t.Errorf("MetadataPath() = %q, want %q", got, want)
	}
}
