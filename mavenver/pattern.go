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

package mavenver

import (
	"regexp"
	"strings"
)

// MetadataPattern is the filter applied to candidate versions before Best
// orders them — e.g. excluding "*-rc*" or
// "*-SNAPSHOT" qualifiers a recipe never wants to see regardless of what
// the Constraint itself would otherwise accept. Syntax is a glob
// ('*' any run of characters, '?' exactly one), matching the style Maven's
// own version-range metadata filtering uses rather than full regex, so a
// recipe author doesn't need to escape '.' or '+' in a version string.
type MetadataPattern struct {
	raw string
	re  *regexp.Regexp
}

// NewMetadataPattern compiles a glob pattern into a MetadataPattern.
func NewMetadataPattern(glob string) (*MetadataPattern, error) {
	re, err := regexp.Compile("^" + globToRegexp(glob) + "$")
	if err != nil {
		return nil, err
	}
	return &MetadataPattern{raw: glob, re: re}, nil
}

// Match reports whether candidate satisfies the pattern.
func (p *MetadataPattern) Match(candidate string) bool {
	if p == nil {
		return true
	}
	return p.re.MatchString(candidate)
}

func (p *MetadataPattern) String() string { return p.raw }

func globToRegexp(glob string) string {
	var b strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
