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
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDependencyKeyDefaultsType(t *testing.T) {
	d := Dependency{GroupID: "org.example", ArtifactID: "widget", Version: "1.0"}
	got := d.Key()
	want := DependencyKey{
		GroupArtifact: GroupArtifact{GroupID: "org.example", ArtifactID: "widget"},
		Type:          "jar",
	}
	if got != want {
		t.Fatalf("Key() = %+v, want %+v", got, want)
	}
	if d.Type != "" {
		t.Fatalf("Key() modified the receiver: Type = %q", d.Type)
	}

	d.Type = "pom"
	d.Classifier = "sources"
	got = d.Key()
	if got.Type != "pom" || got.Classifier != "sources" {
		t.Fatalf("Key() = %+v, want declared type and classifier kept", got)
	}
}

// noBOMs is the importBOM callback for projects whose management imports
// nothing.
func noBOMs(c Coordinate) (DependencyManagement, error) {
	return DependencyManagement{}, fmt.Errorf("unexpected BOM fetch for %s", c)
}

func TestProcessDependenciesDedupesAndFillsFromManagement(t *testing.T) {
	proj := Project{
		Dependencies: []Dependency{
			{GroupID: "org.example", ArtifactID: "core", Version: "1.0"},
			// Duplicate slot: first declaration wins.
			{GroupID: "org.example", ArtifactID: "core", Version: "9.9"},
			// No version: filled from management.
			{GroupID: "org.example", ArtifactID: "managed"},
			// No scope or exclusions: both filled from management.
			{GroupID: "org.example", ArtifactID: "instrumented", Version: "2.0"},
		},
		DependencyManagement: DependencyManagement{
			Dependencies: []Dependency{
				{GroupID: "org.example", ArtifactID: "managed", Version: "3.0"},
				{
					GroupID: "org.example", ArtifactID: "instrumented", Version: "8.8",
					Scope: "test",
					Exclusions: []Exclusion{
						{GroupID: "org.noise", ArtifactID: "*"},
					},
				},
			},
		},
	}
	proj.ProcessDependencies(noBOMs)

	want := []Dependency{
		{GroupID: "org.example", ArtifactID: "core", Version: "1.0", Type: "jar"},
		{GroupID: "org.example", ArtifactID: "managed", Version: "3.0", Type: "jar"},
		{
			GroupID: "org.example", ArtifactID: "instrumented", Version: "2.0", Type: "jar",
			Scope: "test",
			Exclusions: []Exclusion{
				{GroupID: "org.noise", ArtifactID: "*"},
			},
		},
	}
	if diff := cmp.Diff(proj.Dependencies, want); diff != "" {
		t.Errorf("Dependencies (-got, +want):\n%s", diff)
	}
	wantManaged := []Dependency{
		{GroupID: "org.example", ArtifactID: "managed", Version: "3.0", Type: "jar"},
		{
			GroupID: "org.example", ArtifactID: "instrumented", Version: "8.8", Type: "jar",
			Scope: "test",
			Exclusions: []Exclusion{
				{GroupID: "org.noise", ArtifactID: "*"},
			},
		},
	}
	if diff := cmp.Diff(proj.DependencyManagement.Dependencies, wantManaged); diff != "" {
		t.Errorf("DependencyManagement (-got, +want):\n%s", diff)
	}
}

func TestProcessDependenciesImportsBOMsTransitively(t *testing.T) {
	proj := Project{
		Dependencies: []Dependency{
			{GroupID: "org.example", ArtifactID: "from-outer"},
			{GroupID: "org.example", ArtifactID: "from-inner"},
		},
		DependencyManagement: DependencyManagement{
			Dependencies: []Dependency{
				{GroupID: "org.example", ArtifactID: "local", Version: "1.0"},
				{GroupID: "org.bom", ArtifactID: "outer", Version: "1.0", Type: "pom", Scope: "import"},
			},
		},
	}
	boms := map[string]DependencyManagement{
		"org.bom:outer:1.0": {
			Dependencies: []Dependency{
				{GroupID: "org.example", ArtifactID: "from-outer", Version: "2.0"},
				// The outer BOM imports a further BOM; its entries expand
				// before anything the outer queue still holds.
				{GroupID: "org.bom", ArtifactID: "inner", Version: "1.0", Type: "pom", Scope: "import"},
				// A non-pom import is skipped, not fetched.
				{GroupID: "org.bom", ArtifactID: "not-a-bom", Version: "1.0", Scope: "import"},
			},
		},
		"org.bom:inner:1.0": {
			Dependencies: []Dependency{
				{GroupID: "org.example", ArtifactID: "from-inner", Version: "3.0"},
				// Already managed locally: the nearer declaration wins.
				{GroupID: "org.example", ArtifactID: "local", Version: "9.9"},
			},
		},
	}
	var fetched []string
	proj.ProcessDependencies(func(c Coordinate) (DependencyManagement, error) {
		fetched = append(fetched, c.String())
		dm, ok := boms[c.String()]
		if !ok {
			return DependencyManagement{}, fmt.Errorf("no such BOM %s", c)
		}
		return dm, nil
	})

	if diff := cmp.Diff(fetched, []string{"org.bom:outer:1.0", "org.bom:inner:1.0"}); diff != "" {
		t.Errorf("fetched BOMs (-got, +want):\n%s", diff)
	}
	want := []Dependency{
		{GroupID: "org.example", ArtifactID: "from-outer", Version: "2.0", Type: "jar"},
		{GroupID: "org.example", ArtifactID: "from-inner", Version: "3.0", Type: "jar"},
	}
	if diff := cmp.Diff(proj.Dependencies, want); diff != "" {
		t.Errorf("Dependencies (-got, +want):\n%s", diff)
	}
	wantManaged := []Dependency{
		{GroupID: "org.example", ArtifactID: "local", Version: "1.0", Type: "jar"},
		{GroupID: "org.example", ArtifactID: "from-outer", Version: "2.0", Type: "jar"},
		{GroupID: "org.example", ArtifactID: "from-inner", Version: "3.0", Type: "jar"},
	}
	if diff := cmp.Diff(proj.DependencyManagement.Dependencies, wantManaged); diff != "" {
		t.Errorf("DependencyManagement (-got, +want):\n%s", diff)
	}
}

func TestProcessDependenciesToleratesUnfetchableBOM(t *testing.T) {
	proj := Project{
		Dependencies: []Dependency{
			{GroupID: "org.example", ArtifactID: "core", Version: "1.0"},
		},
		DependencyManagement: DependencyManagement{
			Dependencies: []Dependency{
				{GroupID: "org.bom", ArtifactID: "gone", Version: "1.0", Type: "pom", Scope: "import"},
			},
		},
	}
	proj.ProcessDependencies(func(c Coordinate) (DependencyManagement, error) {
		return DependencyManagement{}, fmt.Errorf("%s unreachable", c)
	})
	if len(proj.Dependencies) != 1 || proj.Dependencies[0].Version != "1.0" {
		t.Fatalf("Dependencies = %+v, want core 1.0 untouched", proj.Dependencies)
	}
	if len(proj.DependencyManagement.Dependencies) != 0 {
		t.Fatalf("DependencyManagement = %+v, want empty", proj.DependencyManagement.Dependencies)
	}
}
