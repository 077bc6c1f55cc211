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

// DefaultDependencyType is the packaging Maven assumes when a dependency
// declares no <type> of its own.
const DefaultDependencyType = "jar"

// Dependency is one <dependency> element: a group/artifact pair plus the
// version, type, classifier, scope, exclusion and optionality attributes
// resolution reads.
// https://maven.apache.org/guides/introduction/introduction-to-dependency-mechanism.html
type Dependency struct {
	GroupID    String      `xml:"groupId,omitempty"`
	ArtifactID String      `xml:"artifactId,omitempty"`
	Version    String      `xml:"version,omitempty"`
	Type       String      `xml:"type,omitempty"`
	Classifier String      `xml:"classifier,omitempty"`
	Scope      String      `xml:"scope,omitempty"`
	Exclusions []Exclusion `xml:"exclusions>exclusion,omitempty"`
	Optional   FalsyBool   `xml:"optional,omitempty"`
}

// Exclusion names a GroupArtifact cut out of a dependency's transitive
// tree. "*" is allowed in either component; see Matches.
type Exclusion struct {
	GroupID    String `xml:"groupId,omitempty"`
	ArtifactID String `xml:"artifactId,omitempty"`
}

// Name renders the dependency's group:artifact pair.
func (d *Dependency) Name() string {
	return d.GroupArtifactKey().String()
}

// DependencyKey identifies the management-merge slot a dependency
// occupies: its GroupArtifact plus type and classifier. Version is
// deliberately absent — the slot is what dependencyManagement supplies a
// version for.
type DependencyKey struct {
	GroupArtifact GroupArtifact
	Type          string
	Classifier    string
}

// Key returns d's management-merge slot, with the type defaulted to "jar"
// when the element is absent. d is not modified.
func (d *Dependency) Key() DependencyKey {
	typ := string(d.Type)
	if typ == "" {
		typ = DefaultDependencyType
	}
	return DependencyKey{
		GroupArtifact: d.GroupArtifactKey(),
		Type:          typ,
		Classifier:    string(d.Classifier),
	}
}

func (d *Dependency) interpolate(properties map[string]string) bool {
	ok1 := d.GroupID.interpolate(properties)
	ok2 := d.ArtifactID.interpolate(properties)
	ok3 := d.Version.interpolate(properties)
	ok4 := d.Scope.interpolate(properties)
	ok5 := d.Type.interpolate(properties)
	ok6 := d.Classifier.interpolate(properties)
	ok7 := d.Optional.interpolate(properties)
	return ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7
}

type DependencyManagement struct {
	Dependencies []Dependency `xml:"dependencies>dependency,omitempty"`
}

func (dm *DependencyManagement) merge(parent DependencyManagement) {
	dm.Dependencies = append(dm.Dependencies, parent.Dependencies...)
}

// MaxBOMImports bounds the transitive import-scope BOM walk.
const MaxBOMImports = 300

// ProcessDependencies finishes a project's dependency sections after
// inheritance and interpolation:
//
//   - dedupes declared dependencies and dependency management by
//     DependencyKey, first declaration winning, defaulting absent types to
//     "jar" as it goes;
//   - expands import-scope management entries by fetching each referenced
//     BOM's management section via importBOM, depth-first, bounded by
//     MaxBOMImports;
//   - fills each declared dependency's missing version, scope and
//     exclusions from the merged management.
//
// A BOM that cannot be fetched contributes nothing; the declared sections
// still resolve against whatever management did load.
func (p *Project) ProcessDependencies(importBOM func(Coordinate) (DependencyManagement, error)) {
	withDefaultType := func(dep Dependency) Dependency {
		if dep.Type == "" {
			dep.Type = DefaultDependencyType
		}
		return dep
	}

	declared := make(map[DependencyKey]Dependency, len(p.Dependencies))
	declaredOrder := make([]DependencyKey, 0, len(p.Dependencies))
	for _, dep := range p.Dependencies {
		dep = withDefaultType(dep)
		dk := dep.Key()
		if _, ok := declared[dk]; !ok {
			declared[dk] = dep
			declaredOrder = append(declaredOrder, dk)
		}
	}

	managed := make(map[DependencyKey]Dependency, len(p.DependencyManagement.Dependencies))
	var managedOrder []DependencyKey
	// addManaged folds list into the managed map, first declaration
	// winning, and returns the import-scope entries it set aside.
	addManaged := func(list []Dependency) (imports []Dependency) {
		for _, dm := range list {
			if dm.Scope == "import" {
				imports = append(imports, dm)
				continue
			}
			dm = withDefaultType(dm)
			dk := dm.Key()
			if _, ok := managed[dk]; !ok {
				managed[dk] = dm
				managedOrder = append(managedOrder, dk)
			}
		}
		return
	}

	pending := addManaged(p.DependencyManagement.Dependencies)
	imported := make(map[DependencyKey]bool)
	for n := 0; n < MaxBOMImports && len(pending) > 0; n++ {
		bom := withDefaultType(pending[0])
		pending = pending[1:]
		dk := bom.Key()
		if imported[dk] {
			continue
		}
		imported[dk] = true
		if bom.Type != "pom" {
			continue
		}
		dm, err := importBOM(bom.Coordinate())
		if err != nil {
			continue
		}
		// A BOM's own imports expand before the rest of the queue, the
		// same depth-first order Maven applies.
		pending = append(addManaged(dm.Dependencies), pending...)
	}

	p.Dependencies = make([]Dependency, 0, len(declaredOrder))
	for _, dk := range declaredOrder {
		dep := declared[dk]
		if dm, ok := managed[dk]; ok {
			if dep.Version == "" {
				dep.Version = dm.Version
			}
			if dep.Scope == "" {
				dep.Scope = dm.Scope
			}
			if len(dep.Exclusions) == 0 {
				dep.Exclusions = dm.Exclusions
			}
		}
		p.Dependencies = append(p.Dependencies, dep)
	}
	p.DependencyManagement.Dependencies = make([]Dependency, 0, len(managedOrder))
	for _, dk := range managedOrder {
		p.DependencyManagement.Dependencies = append(p.DependencyManagement.Dependencies, managed[dk])
	}
}
