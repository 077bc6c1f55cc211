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
	"strings"
)

// Properties is the ordered list of <properties> pairs a POM declares.
// Order is document order: a later redefinition of the same name is kept
// as a separate entry and wins when the list is flattened into a map.
type Properties struct {
	Properties []Property
}

type Property struct {
	Name  string
	Value string
}

// UnmarshalXML reads the free-form <properties> section, where every child
// element's local name is the property name and its trimmed text content
// the value:
//
//	<properties>
//	  <name1>value1</name1>
//	  <name2>value2</name2>
//	</properties>
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		t, err := d.Token()
		if err != nil {
			return err
		}
		switch t1 := t.(type) {
		case xml.StartElement:
			var s string
			if err := d.DecodeElement(&s, &t1); err != nil {
				return err
			}
			p.Properties = append(p.Properties, Property{
				Name:  t1.Name.Local,
				Value: strings.TrimSpace(s),
			})
		case xml.EndElement:
			return nil
		}
	}
}

// Get returns the last value declared for name, document order, and
// whether any declaration exists.
func (p Properties) Get(name string) (string, bool) {
	for i := len(p.Properties) - 1; i >= 0; i-- {
		if p.Properties[i].Name == name {
			return p.Properties[i].Value, true
		}
	}
	return "", false
}

func (p *Properties) merge(parent Properties) {
	p.Properties = append(parent.Properties, p.Properties...)
}

// effectiveProperties flattens the declared properties into the dictionary
// interpolation resolves ${...} placeholders against, adding the built-in
// project properties Maven exposes alongside them.
//
// The built-ins come in three spellings: bare ("version"), "pom."-prefixed
// and "project."-prefixed. Only the bare spelling may be overridden by a
// declared property; the prefixed forms always reflect the project itself.
// (The bare and "pom." spellings are deprecated in Maven but still widely
// used, so all three resolve here.)
func (p *Project) effectiveProperties() map[string]string {
	m := make(map[string]string, len(p.Properties.Properties))
	for _, prop := range p.Properties.Properties {
		// Last declaration of a name wins.
		m[prop.Name] = prop.Value
	}

	builtin := func(name string, v String) {
		if v == "" {
			return
		}
		if _, declared := m[name]; !declared {
			m[name] = string(v)
		}
		m["pom."+name] = string(v)
		m["project."+name] = string(v)
	}
	builtin("groupId", p.GroupID)
	builtin("version", p.Version)
	builtin("parent.groupId", p.Parent.GroupID)
	builtin("parent.version", p.Parent.Version)
	return m
}
