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
	"fmt"
	"strings"
)

type String string

func (s *String) ContainsProperty() bool {
	str := string(*s)
	i := strings.Index(str, "${")
	return i >= 0 && strings.Contains(str[i+2:], "}")
}

// UnmarshalXML trims the whitespaces when unmarshalling a string.
func (s *String) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var str string
	if err := d.DecodeElement(&str, &start); err != nil {
		return err
	}
	*s = String(strings.TrimSpace(str))
	return nil
}

func (s *String) merge(s2 String) {
	if *s == "" {
		*s = s2
	}
}

func (s *String) interpolate(dictionary map[string]string) bool {
	result, ok := interpolating(string(*s), dictionary, make(map[string]bool))
	*s = String(result)
	return ok
}

// BoolString represents a string field that holds a boolean value.
// BoolString may contain placeholders which need to be interpolated.
type BoolString string

func (bs *BoolString) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var str string
	err := d.DecodeElement(&str, &start)
	if err != nil {
		return err
	}
	str = strings.TrimSpace(str)
	if strings.Contains(str, "${") && strings.Contains(str, "}") {
		*bs = BoolString(str)
		return nil
	}
	if ss := strings.ToLower(str); ss == "true" || ss == "false" || ss == "" {
		*bs = BoolString(ss)
		return nil
	}
	return fmt.Errorf("unrecognized boolean %q", str)
}

func (bs *BoolString) interpolate(dictionary map[string]string) bool {
	result, ok := interpolating(string(*bs), dictionary, make(map[string]bool))
	*bs = BoolString(result)
	return ok
}

// TrusyBool represents a boolean XML field whose absence means true, such as
// <enabled> on a repository policy or <inherited> on a plugin. TruthyBool is
// the more legible alias used by fields with that default.
type TrusyBool string

// TruthyBool is an alias of TrusyBool for fields that read more naturally
// under that name (e.g. Plugin.Inherited, RepositoryPolicy.Enabled).
type TruthyBool = TrusyBool

// FalsyBool represents a boolean XML field whose absence means false, such
// as <optional> on a dependency or <activeByDefault> on a profile.
type FalsyBool string

func unmarshalBoolString(d *xml.Decoder, start xml.StartElement) (string, error) {
	var str string
	if err := d.DecodeElement(&str, &start); err != nil {
		return "", err
	}
	str = strings.TrimSpace(str)
	if strings.Contains(str, "${") && strings.Contains(str, "}") {
		return str, nil
	}
	ss := strings.ToLower(str)
	if ss == "true" || ss == "false" || ss == "" {
		return ss, nil
	}
	return "", fmt.Errorf("unrecognized boolean %q", str)
}

func (b *TrusyBool) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	s, err := unmarshalBoolString(d, start)
	if err != nil {
		return err
	}
	*b = TrusyBool(s)
	return nil
}

// Boolean reports b's effective value. An empty (absent) element defaults to
// true; anything other than the literal "false" is also true, matching
// Maven's permissive handling of an unresolved placeholder.
func (b TrusyBool) Boolean() bool {
	return string(b) != "false"
}

func (b *TrusyBool) interpolate(dictionary map[string]string) bool {
	result, ok := interpolating(string(*b), dictionary, make(map[string]bool))
	*b = TrusyBool(result)
	return ok
}

func (b *FalsyBool) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	s, err := unmarshalBoolString(d, start)
	if err != nil {
		return err
	}
	*b = FalsyBool(s)
	return nil
}

// Boolean reports b's effective value. An empty (absent) element defaults to
// false; only the literal "true" is true.
func (b FalsyBool) Boolean() bool {
	return string(b) == "true"
}

func (b *FalsyBool) interpolate(dictionary map[string]string) bool {
	result, ok := interpolating(string(*b), dictionary, make(map[string]bool))
	*b = FalsyBool(result)
	return ok
}

// interpolating resolves all property placeholders in s with their
// values defined in dictionary.
// resolving stores the key strings being resolved, it is used to detect cycles.
func interpolating(s string, dictionary map[string]string, resolving map[string]bool) (string, bool) {
	resolved := true
	var dst strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			break
		}
		j := strings.Index(s[i:], "}")
		if j < 0 {
			break
		}
		dst.WriteString(s[:i])
		s = s[i:]
		key := s[2:j]
		if exist, ok := resolving[key]; ok && exist {
			// A cycle of keys detected.
			resolved = false
			break
		}
		// Interpolation starts.
		resolving[key] = true
		if value, ok := dictionary[key]; ok {
			// Try to resolve the value.  If resolved, write the new value.
			if value, ok = interpolating(value, dictionary, resolving); !ok {
				resolved = false
			}
			dst.WriteString(value)
		} else {
			dst.WriteString(s[:j+1])
			resolved = false
		}
		// Resolution finishes.
		resolving[key] = false
		s = s[j+1:]
	}
	dst.WriteString(s)
	return dst.String(), resolved
}
