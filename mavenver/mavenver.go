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
Package mavenver is the version-constraint and comparator system behind
version-upgrading recipes: it recognizes the constraint syntaxes a recipe
uses to pick a replacement version (exact, latest.release, latest.patch,
X wildcards, bracket intervals, and tilde/caret shorthand on top of plain
Maven syntax) and orders candidates by Maven's own version-precedence
rules.

The ordering algorithm (version.go) follows the Maven 3 version-order
specification element for element — qualifier table, numeric/qualifier
element comparison, separator significance — since that ordering is a
correctness requirement, not a style choice. The constraint grammar
(interval.go) is Maven-only: this package has no notion of any other
ecosystem's version syntax.
*/
package mavenver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersionSelector is returned when a constraint string matches
// none of the recognized syntaxes.
var ErrInvalidVersionSelector = errors.New("mavenver: invalid version selector")

// kind distinguishes the metadata-driven pseudo-constraints from
// everything parseRange understands as a selector.
type kind byte

const (
	kindSet kind = iota
	kindLatestRelease
	kindLatestPatch
)

// Constraint is a validated version selector. It is built once, at recipe
// construction time, and reused across every candidate version a recipe
// considers.
type Constraint struct {
	raw  string
	kind kind
	sel  selector // only meaningful when kind == kindSet
}

// Parse validates str against the recognized selector grammar and returns
// a reusable Constraint, or ErrInvalidVersionSelector wrapping the
// underlying parse failure.
func Parse(str string) (*Constraint, error) {
	trimmed := strings.TrimSpace(str)
	switch trimmed {
	case "latest.release":
		return &Constraint{raw: trimmed, kind: kindLatestRelease}, nil
	case "latest.patch":
		return &Constraint{raw: trimmed, kind: kindLatestPatch}, nil
	}

	translated, err := translateRange(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidVersionSelector, str, err)
	}

	sel, err := parseRange(translated)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidVersionSelector, str, err)
	}
	return &Constraint{raw: trimmed, kind: kindSet, sel: sel}, nil
}

// String returns the original (untranslated) selector text.
func (c *Constraint) String() string { return c.raw }

// IsValid reports whether candidate satisfies the constraint on its own
// (without reference to a "current" version or to upstream metadata). For
// latest.release it means "is a release, not a snapshot"; for latest.patch
// every syntactically valid version is individually valid — the
// major.minor narrowing needs a current version and is applied by Best,
// not IsValid.
func (c *Constraint) IsValid(candidate string) bool {
	switch c.kind {
	case kindLatestRelease:
		return !isSnapshot(candidate)
	case kindLatestPatch:
		_, err := tokenize(candidate)
		return err == nil
	default:
		return c.sel.match(candidate)
	}
}

// Compare orders two candidate versions using Maven's own precedence
// rules (pre-release orders below release). A "+..." suffix is not
// treated as build metadata; it is ordered as ordinary qualifier text.
func Compare(a, b string) int {
	return compareVersions(a, b)
}

// Best returns the highest candidate (per Compare) that satisfies the
// constraint, narrowed for latest.patch to candidates sharing current's
// major.minor, and filtered through pattern (if non-nil). It returns
// ("", false) if nothing qualifies or nothing newer than current exists,
// which recipes treat as "leave the tag unchanged".
func (c *Constraint) Best(current string, candidates []string, pattern *MetadataPattern) (string, bool) {
	var major, minor string
	if c.kind == kindLatestPatch {
		major, minor, _ = majorMinor(current)
	}

	best := ""
	found := false
	for _, cand := range candidates {
		if pattern != nil && !pattern.Match(cand) {
			continue
		}
		if !c.IsValid(cand) {
			continue
		}
		if c.kind == kindLatestPatch {
			m, n, ok := majorMinor(cand)
			if !ok || m != major || n != minor {
				continue
			}
		}
		if !found || Compare(cand, best) > 0 {
			best = cand
			found = true
		}
	}
	if !found {
		return "", false
	}
	if Compare(best, current) <= 0 {
		return "", false
	}
	return best, true
}

func majorMinor(v string) (major, minor string, ok bool) {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func isSnapshot(v string) bool {
	return strings.HasSuffix(strings.ToUpper(v), "-SNAPSHOT")
}

// MatchesJDK reports whether jdk satisfies a <jdk> profile-activation
// expression. A bare version (e.g. "1.5", with no brackets or wildcard)
// follows Maven's documented JDK-activation rule — active when jdk shares
// its major and minor number and is not older —
// https://maven.apache.org/guides/introduction/introduction-to-profiles.html#jdk.
// Anything else (a bracket range or wildcard) is evaluated as an ordinary
// version constraint via Parse.
func MatchesJDK(spec, jdk string) (bool, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return false, nil
	}
	if isBareVersion(trimmed) {
		jMajor, jMinor, ok := majorMinor(jdk)
		if !ok {
			return false, nil
		}
		major, minor, ok := majorMinor(trimmed)
		if !ok {
			// A bare major with no minor component matches on the major
			// number alone.
			return trimmed == jMajor && compareVersions(jdk, trimmed) >= 0, nil
		}
		return major == jMajor && minor == jMinor && compareVersions(jdk, trimmed) >= 0, nil
	}
	c, err := Parse(trimmed)
	if err != nil {
		return false, err
	}
	return c.IsValid(jdk), nil
}

// isBareVersion reports whether s is a plain version with none of the
// range/wildcard syntax characters — the form Maven's JDK activation rule
// treats specially.
func isBareVersion(s string) bool {
	if strings.ContainsAny(s, disallowedBareChars) {
		return false
	}
	_, wildcard := wildcardPrefix(s)
	return !wildcard
}

// translateRange rewrites the two shorthand prefixes layered on top of
// plain Maven syntax — "~1.2.3" (tilde, patch-level) and "^1.2.3" (caret,
// compatible-with) — into an equivalent Maven bracket interval, then lets
// parseRange parse the rest untouched. Inputs without either prefix pass
// through verbatim.
func translateRange(s string) (string, error) {
	switch {
	case strings.HasPrefix(s, "~"):
		return tildeRange(strings.TrimPrefix(s, "~"))
	case strings.HasPrefix(s, "^"):
		return caretRange(strings.TrimPrefix(s, "^"))
	default:
		return s, nil
	}
}

// tildeRange allows patch-level changes: ~1.2.3 := [1.2.3,1.3.0).
func tildeRange(v string) (string, error) {
	major, minor, _, err := splitMMP(v)
	if err != nil {
		return "", err
	}
	upper := fmt.Sprintf("%d.%d.0", major, minor+1)
	return fmt.Sprintf("[%s,%s)", v, upper), nil
}

// caretRange allows changes that don't modify the left-most non-zero
// digit: ^1.2.3 := [1.2.3,2.0.0); ^0.2.3 := [0.2.3,0.3.0).
func caretRange(v string) (string, error) {
	major, minor, _, err := splitMMP(v)
	if err != nil {
		return "", err
	}
	var upper string
	switch {
	case major > 0:
		upper = fmt.Sprintf("%d.0.0", major+1)
	case minor > 0:
		upper = fmt.Sprintf("0.%d.0", minor+1)
	default:
		upper = "0.0.1"
	}
	return fmt.Sprintf("[%s,%s)", v, upper), nil
}

func splitMMP(v string) (major, minor, patch int, err error) {
	parts := strings.SplitN(v, ".", 3)
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	nums := make([]int, 3)
	for i := 0; i < 3; i++ {
		numStr := parts[i]
		// Drop any qualifier suffix (e.g. "3-beta") for the purposes of
		// computing the range bound; the lower bound keeps the original
		// string verbatim.
		if idx := strings.IndexAny(numStr, "-+"); idx >= 0 {
			numStr = numStr[:idx]
		}
		n, convErr := strconv.Atoi(numStr)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("invalid numeric component %q in %q", parts[i], v)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}
