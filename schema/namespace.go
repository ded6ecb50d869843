// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// Copyright (c) 2014-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

// Namespace identifies one loaded module's XML namespace, carrying the
// URI used for matching and the display prefix used for dump/translate
// output.
type Namespace struct {
	Href   string
	Prefix string
	native bool
}

// NewNamespace builds a Namespace. native marks the single designated
// native namespace for a schema instance (the root's namespace).
func NewNamespace(href, prefix string, native bool) *Namespace {
	return &Namespace{Href: href, Prefix: prefix, native: native}
}

func (ns *Namespace) IsNative() bool {
	return ns != nil && ns.native
}

// Matches implements the three-way namespace match: both
// native, equal URIs, or a null query against the root namespace.
func (ns *Namespace) Matches(other *Namespace, isRoot bool) bool {
	if ns == nil && other == nil {
		return true
	}
	if other == nil {
		return ns.native || isRoot
	}
	if ns == nil {
		return other.native || isRoot
	}
	if ns.native && other.native {
		return true
	}
	return ns.Href == other.Href
}

// NamespaceMap is the table loaded from `.map` files: URI to
// display prefix. The loader treats a URI present in the map as
// non-native and a URI absent from it as native.
type NamespaceMap struct {
	byHref map[string]string
}

func NewNamespaceMap() *NamespaceMap {
	return &NamespaceMap{byHref: make(map[string]string)}
}

// Set records (or overrides) the prefix for href. Later entries for
// the same URI win.
func (m *NamespaceMap) Set(href, prefix string) {
	m.byHref[href] = prefix
}

func (m *NamespaceMap) Prefix(href string) (string, bool) {
	p, ok := m.byHref[href]
	return p, ok
}

// Contains reports whether href is present in the loaded namespace map,
// case-insensitively on the scheme+host portion is not attempted: URIs
// are compared as opaque strings.
func (m *NamespaceMap) Contains(href string) bool {
	_, ok := m.byHref[href]
	return ok
}
