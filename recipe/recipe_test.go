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
	"testing"

	"github.com/escardin/rewrite/pom"
	"github.com/escardin/rewrite/visitor"
)

type fakeFetcher struct {
	versions map[string][]string
}

func (f *fakeFetcher) AvailableVersions(_ context.Context, ga pom.GroupArtifact) ([]string, error) {
	return f.versions[ga.String()], nil
}

func testParentProject() *pom.Project {
	return &pom.Project{
		ProjectKey: pom.ProjectKey{
			GroupID:    "com.example",
			ArtifactID: "widget",
			Version:    "1.0",
		},
		Parent: pom.Parent{
			ProjectKey: pom.ProjectKey{
				GroupID:    "org.springframework.boot",
				ArtifactID: "spring-boot-starter-parent",
				Version:    "2.3.0",
			},
		},
	}
}

// A newer matching parent version exists: the tag is rewritten.
func TestUpgradeParentVersionRewritesTag(t *testing.T) {
	fetcher := &fakeFetcher{versions: map[string][]string{
		"org.springframework.boot:spring-boot-starter-parent": {"2.3.0", "2.3.1", "2.4.0", "3.0.0-M1"},
	}}
	r, err := UpgradeParentVersion("org.springframework.boot", "spring-boot-starter-parent", "2.X", "", fetcher)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Run(context.Background(), r, testParentProject())
	if err != nil {
		t.Fatal(err)
	}
	if string(out.Parent.Version) != "2.4.0" {
		t.Errorf("parent version = %s, want 2.4.0", out.Parent.Version)
	}
}

// The constraint narrows to exactly the current version, so the POM is
// left unchanged.
func TestUpgradeParentVersionNoNewerMatch(t *testing.T) {
	fetcher := &fakeFetcher{versions: map[string][]string{
		"org.springframework.boot:spring-boot-starter-parent": {"2.3.0"},
	}}
	r, err := UpgradeParentVersion("org.springframework.boot", "spring-boot-starter-parent", "2.3.X", "", fetcher)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Run(context.Background(), r, testParentProject())
	if err != nil {
		t.Fatal(err)
	}
	if string(out.Parent.Version) != "2.3.0" {
		t.Errorf("parent version = %s, want unchanged 2.3.0", out.Parent.Version)
	}
}

func TestUpgradeParentVersionInvalidSelectorFailsAtConstruction(t *testing.T) {
	_, err := UpgradeParentVersion("g", "a", "not a version(", "", &fakeFetcher{})
	if err == nil {
		t.Fatal("expected construction to fail for an invalid version selector")
	}
}

func TestDoNextChainsInOrder(t *testing.T) {
	var order []string
	step := func(name string) *Recipe {
		return New(name, name, name, func(context.Context) (*visitor.Visitor, error) {
			order = append(order, name)
			return &visitor.Visitor{}, nil
		})
	}
	a := step("a")
	a.DoNext(step("b")).DoNext(step("c"))

	if _, err := Run(context.Background(), a, testParentProject()); err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
