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
Package scope reifies Maven's dependency scope and its transitivity table.

The table is spread across Maven's own documentation and its dependency
mechanism guide; it is gathered here into a single, fixed, non-overridable
constant so both the resolver (computing which transitive edges survive) and
recipes (answering "is X on Y's classpath") share one source of truth.
*/
package scope

// Scope is a Maven dependency scope. The zero value, None, denotes the
// absence of a scope (an edge that does not exist).
type Scope byte

const (
	None Scope = iota
	Compile
	Provided
	Runtime
	Test
	System
	// Invalid is returned for any scope string Maven itself does not
	// recognize. It is never transitive in either direction.
	Invalid
)

var names = [...]string{
	None:     "",
	Compile:  "compile",
	Provided: "provided",
	Runtime:  "runtime",
	Test:     "test",
	System:   "system",
	Invalid:  "invalid",
}

func (s Scope) String() string {
	if int(s) < len(names) {
		return names[s]
	}
	return "invalid"
}

// Parse maps a POM <scope> string to a Scope. The empty string is Maven's
// default scope, compile. Unknown strings map to Invalid rather than
// erroring, matching Maven's own permissive parser (an unrecognized scope
// simply can't appear on anyone's classpath).
func Parse(s string) Scope {
	switch s {
	case "", "compile":
		return Compile
	case "provided":
		return Provided
	case "runtime":
		return Runtime
	case "test":
		return Test
	case "system":
		return System
	default:
		return Invalid
	}
}

// transitivity is the fixed Maven scope table: transitivity[declared][ownDep]
// is the scope the dependency-of-a-dependency carries once it reaches the
// root project, or None if it is not carried at all.
// https://maven.apache.org/guides/introduction/introduction-to-dependency-mechanism.html#dependency-scope
var transitivity = map[Scope]map[Scope]Scope{
	Compile: {
		Compile: Compile,
		Runtime: Runtime,
	},
	Runtime: {
		Compile: Runtime,
		Runtime: Runtime,
	},
	Provided: {
		Compile: Provided,
		Runtime: Provided,
	},
	Test: {
		Compile: Test,
		Runtime: Test,
	},
	// System and Invalid are leaves: a system-scope dependency's own
	// dependencies are never resolved transitively, and an unrecognized
	// scope carries nothing.
}

// TransitiveOf returns the scope a dependency declared with scope childScope
// ends up with on the root project's classpath, when reached via an edge
// declared with scope parentScope. It returns None when childScope is not
// carried transitively at all (e.g. parentScope is System, or childScope is
// Provided or Test).
func TransitiveOf(parentScope, childScope Scope) Scope {
	row, ok := transitivity[parentScope]
	if !ok {
		return None
	}
	return row[childScope]
}

// IsInClasspathOf reports whether a dependency declared with scope is on
// the classpath a consumer builds with usageScope: per the Maven scope
// table, that holds exactly when TransitiveOf(scope, usageScope) maps back
// to usageScope itself.
func IsInClasspathOf(scope, usageScope Scope) bool {
	return TransitiveOf(scope, usageScope) == usageScope
}
