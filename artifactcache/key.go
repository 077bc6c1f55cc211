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

/*
Package artifactcache is the second-level cache that stores fetched artifact
bytes on disk, keyed by a resolved dependency. It is independent of
cache.PomCache: a POM cache miss fetches XML that describes a dependency, an
artifactcache miss fetches the dependency's actual jar/bytes.
*/
package artifactcache

import (
	"strings"

	"github.com/escardin/rewrite/pom"
)

// Key identifies one artifact: a resolved (non-range, non-property)
// coordinate plus the classifier/type pair that distinguishes e.g. a
// `sources` jar from the main artifact. It widens pom.DependencyKey with
// Version, which DependencyKey deliberately omits (it identifies a
// dependency slot for management-merge purposes, not an artifact).
type Key struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Type       string
}

// KeyOf derives the artifact cache key for a resolved dependency, defaulting
// Type to "jar" to match Maven's own default packaging.
func KeyOf(d pom.Dependency) Key {
	typ := string(d.Type)
	if typ == "" {
		typ = pom.DefaultDependencyType
	}
	return Key{
		GroupID:    string(d.GroupID),
		ArtifactID: string(d.ArtifactID),
		Version:    string(d.Version),
		Classifier: string(d.Classifier),
		Type:       typ,
	}
}

// Path returns the Maven repository-layout relative path for the artifact,
// e.g. "com/example/widget/1.0/widget-1.0-sources.jar".
func (k Key) Path() string {
	groupPath := strings.ReplaceAll(k.GroupID, ".", "/")
	name := k.ArtifactID + "-" + k.Version
	if k.Classifier != "" {
		name += "-" + k.Classifier
	}
	name += "." + k.Type
	return groupPath + "/" + k.ArtifactID + "/" + k.Version + "/" + name
}

// filename returns a single flat filename safe for any filesystem, used by
// DiskCache instead of Path's nested directory layout.
func (k Key) filename() string {
	parts := []string{k.GroupID, k.ArtifactID, k.Version}
	if k.Classifier != "" {
		parts = append(parts, k.Classifier)
	}
	parts = append(parts, k.Type)
	return strings.Join(parts, "_")
}
