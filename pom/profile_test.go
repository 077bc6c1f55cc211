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

import (
	"encoding/xml"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProfileUnmarshal(t *testing.T) {
	input, err := os.ReadFile("testdata/profiles.xml")
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	var project struct {
		Profiles []Profile `xml:"profiles>profile"`
	}
	if err := xml.Unmarshal(input, &project); err != nil {
		t.Fatalf("failed to unmarshal input: %v", err)
	}

	want := []Profile{{
		ID: "my-profile-1",
		Activation: Activation{
			ActiveByDefault: "false",
			JDK:             "1.8",
			OS: ActivationOS{
				Name:    "linux",
				Family:  "unix",
				Arch:    "amd64",
				Version: "5.10.0-26-cloud-amd64",
			},
			Property: ActivationProperty{
				Name:  "debug",
				Value: "true",
			},
			File: ActivationFile{
				Missing: "/missing/file/path",
			},
		},
		Properties: Properties{
			Properties: []Property{
				{Name: "abc.version", Value: "1.0.0"},
				{Name: "def.version", Value: "2.0.0"},
			},
		},
		Dependencies: []Dependency{{
			GroupID:    "org.profile",
			ArtifactID: "abc",
			Version:    "${abc.version}",
		}, {
			GroupID:    "org.profile",
			ArtifactID: "def",
			Version:    "${def.version}",
		}},
	}, {
		ID: "my-profile-2",
		Activation: Activation{
			ActiveByDefault: "true",
			File: ActivationFile{
				Exists: "/exists/file/path",
			},
		},
		DependencyManagement: DependencyManagement{
			Dependencies: []Dependency{{
				GroupID:    "org.import",
				ArtifactID: "xyz",
				Version:    "3.0.0",
				Scope:      "import",
				Type:       "pom",
			}, {
				GroupID:    "org.dep",
				ArtifactID: "management",
				Version:    "4.0.0",
			}},
		},
		Repositories: []Repository{
			{
				ID:  "profile-repo",
				URL: "https://www.profile-repo.example.com",
				Snapshots: RepositoryPolicy{
					Enabled: "true",
				},
			},
		},
	}}
	if diff := cmp.Diff(project.Profiles, want); diff != "" {
		t.Errorf("profiles (-got, +want):\n%s", diff)
	}
}

// The activation fixtures run against JDKProfileActivation ("11.0.8") and
// OSProfileActivation (linux/unix/amd64).
func TestProfileActivation(t *testing.T) {
	tests := []struct {
		name string
		act  Activation
		want bool
	}{
		// activeByDefault alone never activates a profile here; default
		// profiles are a fallback MergeProfiles applies separately.
		{"active-by-default only", Activation{ActiveByDefault: "true"}, false},
		{"active-by-default non-boolean", Activation{ActiveByDefault: "not-bool"}, false},

		// Property activation: only the negated forms can activate
		// without a real property source to consult.
		{"negated name", Activation{Property: ActivationProperty{Name: "!any-name"}}, true},
		{"bare name", Activation{Property: ActivationProperty{Name: "any-name"}}, false},
		{"name and value", Activation{Property: ActivationProperty{Name: "any-name", Value: "any-value"}}, false},
		{"negated value", Activation{Property: ActivationProperty{Name: "any-name", Value: "!any-value"}}, true},
		{"negated name, bare value", Activation{Property: ActivationProperty{Name: "!any-name", Value: "any-value"}}, false},
		{"negated name and value", Activation{Property: ActivationProperty{Name: "!any-name", Value: "!any-value"}}, true},

		// JDK activation against 11.0.8.
		{"jdk closed range below", Activation{JDK: "[1.3,1.6)"}, false},
		{"jdk open-ended range", Activation{JDK: "[1.3,)"}, true},
		{"jdk bare version older line", Activation{JDK: "1.3"}, false},
		{"jdk bare major newer", Activation{JDK: "999"}, false},

		// All criteria must hold together.
		{"jdk fails, property holds", Activation{JDK: "[1.3,1.6)", Property: ActivationProperty{Name: "!any-name"}}, false},
		{"jdk holds, property holds", Activation{JDK: "[1.3,)", Property: ActivationProperty{Name: "!any-name"}}, true},
		{"jdk holds, property fails", Activation{JDK: "[1.3,)", Property: ActivationProperty{Name: "any-name"}}, false},

		// OS activation, case-insensitive, with ! negation.
		{"os mismatch", Activation{OS: ActivationOS{Name: "Windows XP", Family: "Windows", Arch: "x86", Version: "5.1.2600"}}, false},
		{"os full match", Activation{OS: ActivationOS{Name: "Linux", Family: "Unix", Arch: "amd64", Version: "5.10.0-26-cloud-amd64"}}, true},
		{"os partial fields", Activation{OS: ActivationOS{Name: "Linux", Family: "Unix", Arch: "amd64"}}, true},
		{"os name only", Activation{OS: ActivationOS{Name: "Linux"}}, true},
		{"os negations hold", Activation{OS: ActivationOS{Name: "!Windows", Family: "Unix", Arch: "!darwin"}}, true},
		{"os negation fails", Activation{OS: ActivationOS{Name: "Linux", Family: "!Unix"}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prof := Profile{Activation: tc.act}
			got, err := prof.activated(JDKProfileActivation, OSProfileActivation)
			if err != nil {
				t.Fatalf("activated(): %v", err)
			}
			if got != tc.want {
				t.Fatalf("activated() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMergeProfiles(t *testing.T) {
	t.Run("active profiles merge, inactive don't", func(t *testing.T) {
		proj := Project{
			Dependencies: []Dependency{
				{GroupID: "org.dep", ArtifactID: "xyz", Version: "1.1.1"},
			},
			DependencyManagement: DependencyManagement{
				Dependencies: []Dependency{
					{GroupID: "org.management", ArtifactID: "xyz", Version: "2.2.2"},
				},
			},
			Repositories: []Repository{
				{ID: "default-repo", URL: "https://www.example.com"},
			},
			Profiles: []Profile{{
				// Inactive: the JDK range excludes 11.
				Activation: Activation{JDK: "[1.3,1.5)"},
				Dependencies: []Dependency{
					{GroupID: "org.dep", ArtifactID: "not-activated", Version: "1.0.0"},
				},
				Repositories: []Repository{
					{ID: "repo-not-activated", URL: "https://www.example.com"},
				},
			}, {
				// Active via JDK.
				Activation: Activation{JDK: "[1.5,)"},
				Dependencies: []Dependency{
					{GroupID: "org.dep", ArtifactID: "abc", Version: "1.0.0"},
					{GroupID: "org.dep", ArtifactID: "def", Version: "2.0.0"},
				},
				Repositories: []Repository{
					{ID: "profile-repo-1", URL: "https://www.profile.repo-1.example.com"},
				},
			}, {
				// Active via OS.
				Activation: Activation{
					OS: ActivationOS{
						Name:    "Linux",
						Family:  "Unix",
						Arch:    "amd64",
						Version: "5.10.0-26-cloud-amd64",
					},
				},
				DependencyManagement: DependencyManagement{
					Dependencies: []Dependency{
						{GroupID: "org.management", ArtifactID: "xxx", Version: "3.0.0"},
						{GroupID: "org.management", ArtifactID: "yyy", Version: "4.0.0"},
					},
				},
				Repositories: []Repository{
					{ID: "profile-repo-2", URL: "https://www.profile.repo-2.example.com"},
				},
			}},
		}
		if err := proj.MergeProfiles(JDKProfileActivation, OSProfileActivation); err != nil {
			t.Fatalf("MergeProfiles: %v", err)
		}
		proj.Profiles = nil

		want := Project{
			Dependencies: []Dependency{
				{GroupID: "org.dep", ArtifactID: "xyz", Version: "1.1.1"},
				{GroupID: "org.dep", ArtifactID: "abc", Version: "1.0.0"},
				{GroupID: "org.dep", ArtifactID: "def", Version: "2.0.0"},
			},
			DependencyManagement: DependencyManagement{
				Dependencies: []Dependency{
					{GroupID: "org.management", ArtifactID: "xyz", Version: "2.2.2"},
					{GroupID: "org.management", ArtifactID: "xxx", Version: "3.0.0"},
					{GroupID: "org.management", ArtifactID: "yyy", Version: "4.0.0"},
				},
			},
			Repositories: []Repository{
				{ID: "default-repo", URL: "https://www.example.com"},
				{ID: "profile-repo-1", URL: "https://www.profile.repo-1.example.com"},
				{ID: "profile-repo-2", URL: "https://www.profile.repo-2.example.com"},
			},
		}
		if diff := cmp.Diff(proj, want); diff != "" {
			t.Errorf("merged project (-got, +want):\n%s", diff)
		}
	})

	t.Run("default profiles only when nothing activates", func(t *testing.T) {
		proj := Project{
			Dependencies: []Dependency{
				{GroupID: "org.dep", ArtifactID: "xyz", Version: "1.1.1"},
			},
			Profiles: []Profile{{
				Activation: Activation{
					Property: ActivationProperty{Name: "any-name", Value: "any-value"},
				},
				Dependencies: []Dependency{
					{GroupID: "org.activation", ArtifactID: "not-activated", Version: "1.0.0"},
				},
			}, {
				Activation: Activation{ActiveByDefault: "true"},
				Dependencies: []Dependency{
					{GroupID: "org.activation", ArtifactID: "activated", Version: "2.0.0"},
				},
			}},
		}
		if err := proj.MergeProfiles(JDKProfileActivation, OSProfileActivation); err != nil {
			t.Fatalf("MergeProfiles: %v", err)
		}
		proj.Profiles = nil

		want := Project{
			Dependencies: []Dependency{
				{GroupID: "org.dep", ArtifactID: "xyz", Version: "1.1.1"},
				{GroupID: "org.activation", ArtifactID: "activated", Version: "2.0.0"},
			},
		}
		if diff := cmp.Diff(proj, want); diff != "" {
			t.Errorf("merged project (-got, +want):\n%s", diff)
		}
	})
}
