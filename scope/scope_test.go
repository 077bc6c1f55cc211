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

package scope

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Scope
	}{
		{"", Compile},
		{"compile", Compile},
		{"provided", Provided},
		{"runtime", Runtime},
		{"test", Test},
		{"system", System},
		{"bogus", Invalid},
	}
	for _, tc := range tests {
		if got := Parse(tc.in); got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTransitiveOf(t *testing.T) {
	tests := []struct {
		parent, child Scope
		want          Scope
	}{
		{Compile, Compile, Compile},
		{Compile, Runtime, Runtime},
		{Compile, Provided, None},
		{Compile, Test, None},
		{Runtime, Compile, Runtime},
		{Runtime, Runtime, Runtime},
		{Provided, Compile, Provided},
		{Provided, Runtime, Provided},
		{Provided, Provided, None},
		{Test, Compile, Test},
		{Test, Runtime, Test},
		{Test, Test, None},
		{System, Compile, None},
		{Invalid, Compile, None},
	}
	for _, tc := range tests {
		if got := TransitiveOf(tc.parent, tc.child); got != tc.want {
			t.Errorf("TransitiveOf(%v, %v) = %v, want %v", tc.parent, tc.child, got, tc.want)
		}
	}
}

// TestScopeTableProperty checks that for all s, q,
// IsInClasspathOf(s, q) ⇔ TransitiveOf(s, q) == q.
func TestScopeTableProperty(t *testing.T) {
	all := []Scope{None, Compile, Provided, Runtime, Test, System, Invalid}
	for _, s := range all {
		for _, q := range all {
			got := IsInClasspathOf(s, q)
			want := TransitiveOf(s, q) == q
			if got != want {
				t.Errorf("IsInClasspathOf(%v,%v) = %v, want %v", s, q, got, want)
			}
		}
	}
}
