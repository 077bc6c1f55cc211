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
	"testing"
)

func TestStringTrimsWhitespace(t *testing.T) {
	var got struct {
		Str String `xml:"string"`
	}
	if err := xml.Unmarshal([]byte(`<doc><string> test </string></doc>`), &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if got.Str != "test" {
		t.Fatalf("unmarshal = %q, want %q", got.Str, "test")
	}
}

func TestStringContainsProperty(t *testing.T) {
	tests := []struct {
		s    String
		want bool
	}{
		{"1.2.3", false},
		{"${widget.version}", true},
		{"prefix-${v}-suffix", true},
		{"${unclosed", false},
		{"closed}", false},
	}
	for _, tc := range tests {
		if got := tc.s.ContainsProperty(); got != tc.want {
			t.Errorf("ContainsProperty(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}

// boolXML unmarshals one <bool> element into dst, which must be a pointer
// to a TrusyBool- or FalsyBool-typed field wrapper.
func boolXML(t *testing.T, body string, dst any) error {
	t.Helper()
	return xml.Unmarshal([]byte("<doc><bool>"+body+"</bool></doc>"), dst)
}

func TestBoolFieldsShareValidation(t *testing.T) {
	var trusy struct {
		B TrusyBool `xml:"bool"`
	}
	var falsy struct {
		B FalsyBool `xml:"bool"`
	}
	if err := boolXML(t, "haha", &trusy); err == nil {
		t.Error("TrusyBool accepted a non-boolean value")
	}
	if err := boolXML(t, "haha", &falsy); err == nil {
		t.Error("FalsyBool accepted a non-boolean value")
	}

	// Both types lowercase and trim their input; they differ only in what
	// an absent element means.
	tests := []struct {
		body      string
		stored    string
		wantTrusy bool
		wantFalsy bool
	}{
		{" true ", "true", true, true},
		{"TRue", "true", true, true},
		{"FalSE", "false", false, false},
		{"", "", true, false},
	}
	for _, tc := range tests {
		if err := boolXML(t, tc.body, &trusy); err != nil {
			t.Errorf("TrusyBool(%q): %v", tc.body, err)
			continue
		}
		if string(trusy.B) != tc.stored || trusy.B.Boolean() != tc.wantTrusy {
			t.Errorf("TrusyBool(%q) = %q/%v, want %q/%v", tc.body, trusy.B, trusy.B.Boolean(), tc.stored, tc.wantTrusy)
		}
		if err := boolXML(t, tc.body, &falsy); err != nil {
			t.Errorf("FalsyBool(%q): %v", tc.body, err)
			continue
		}
		if string(falsy.B) != tc.stored || falsy.B.Boolean() != tc.wantFalsy {
			t.Errorf("FalsyBool(%q) = %q/%v, want %q/%v", tc.body, falsy.B, falsy.B.Boolean(), tc.stored, tc.wantFalsy)
		}
	}
}

func TestBoolFieldsKeepPlaceholders(t *testing.T) {
	var got struct {
		B FalsyBool `xml:"bool"`
	}
	if err := boolXML(t, "${make.optional}", &got); err != nil {
		t.Fatalf("placeholder rejected: %v", err)
	}
	if string(got.B) != "${make.optional}" {
		t.Fatalf("stored = %q, want placeholder kept verbatim", got.B)
	}
}

func TestInterpolateString(t *testing.T) {
	dictionary := map[string]string{
		"foo":    "1",
		"bar":    "2",
		"recur":  "${recur}",
		"recur1": "${recur2}",
		"recur2": "${recur3}",
		"recur3": "${recur1}",
		"x":      "${y}",
		"y":      "z",
		"a":      "${b}",
		"b":      "c",
		"d":      "${a}-${x}",
		"key":    "${unknown}",
	}
	tests := []struct {
		in       String
		want     String
		resolved bool
	}{
		{"foo", "foo", true},
		{"${foo", "${foo", true},
		{"foo}", "foo}", true},
		{"${foo}", "1", true},
		{"${foo}.${foo}", "1.1", true},
		{"${foo}.${bar}", "1.2", true},
		{"${foo.bar}", "${foo.bar}", false},
		{"${${foo}}", "${${foo}}", false},
		// Unknown keys resolve partially and report failure.
		{"${foo}.${unknown}", "1.${unknown}", false},
		{"${unknown}.${bar}", "${unknown}.2", false},
		// Self- and mutually-recursive definitions are cycles.
		{"${recur}", "${recur}", false},
		{"${recur1}", "${recur1}", false},
		// Values may themselves hold placeholders.
		{"${x}", "z", true},
		{"${a}-${x}", "c-z", true},
		{"${d}", "c-z", true},
		{"${key}", "${unknown}", false},
	}
	for _, tc := range tests {
		got := tc.in
		ok := got.interpolate(dictionary)
		if got != tc.want || ok != tc.resolved {
			t.Errorf("interpolate(%s) = %s, %t, want %s, %t", tc.in, got, ok, tc.want, tc.resolved)
		}
	}
}
