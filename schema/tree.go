// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// Copyright (c) 2014-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package schema

import "strings"

// LookupOpts controls the dialect accepted by Lookup.
type LookupOpts struct {
	XPath bool
}

// Lookup resolves a '/'-separated path against the tree starting at
// start (nil means the instance root). It implements:
//  1. prefix:local resolution against the accumulating namespace,
//  2. list-entry addressing ("name=value" or "name[key='value']"),
//  3. wildcard descendant search for "//name" / "/*/name",
//  4. proxy-node restart from the tree root.
func (inst *Instance) Lookup(start *Node, path string, opts LookupOpts) (*Node, error) {
	if start == nil {
		start = inst.root
	}
	segments := splitPath(path, opts.XPath)
	cur := start
	curNS := start.namespace
	for i := 0; i < len(segments); i++ {
		seg := segments[i]
		name, _ := stripKeyPortion(seg, opts.XPath)
		if name == "" {
			continue
		}

		if name == WildcardName {
			wc := cur.wildcardChild()
			if wc == nil && opts.XPath && i+1 < len(segments) {
				if found, _ := inst.findDescendant(cur, segments[i+1:]); found != nil {
					cur = found
					curNS = cur.namespace
					break
				}
			}
			if wc == nil {
				return nil, NewNoSchemaNodeError(segments[:i+1])
			}
			cur = wc
			curNS = cur.namespace
			if cur.IsProxy() {
				cur = inst.root
				curNS = cur.namespace
			}
			continue
		}

		resolvedName, resolvedNS := inst.resolvePrefixed(curNS, name)
		child := findChildInNamespace(cur, resolvedName, resolvedNS)
		if child == nil {
			return nil, NewNoSchemaNodeError(segments[:i+1])
		}
		cur = child
		curNS = cur.namespace
		if cur.IsProxy() {
			cur = inst.root
			curNS = cur.namespace
		}

		// A list/leaf-list's only real schema child is the synthetic
		// wildcard entry. A keyed segment ("animal=cat" or
		// "animal[name='cat']") or a bare list-name segment followed
		// by further path components both address into that entry, so
		// resolution must continue against the wildcard rather than
		// stall on the list node itself.
		if i+1 < len(segments) && (cur.IsList() || cur.IsLeafList()) {
			if wc := cur.wildcardChild(); wc != nil {
				cur = wc
				curNS = cur.namespace
				if cur.IsProxy() {
					cur = inst.root
					curNS = cur.namespace
				}
			}
		}
	}
	return cur, nil
}

// resolvePrefixed handles prefixed segments: if name contains ':', try
// to resolve the prefix to a namespace (local scope preferred, then
// root scope); if nothing matches, ':' is treated as a literal
// character and the whole string is the name.
func (inst *Instance) resolvePrefixed(scopeNS *Namespace, name string) (string, *Namespace) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return name, scopeNS
	}
	prefix, local := name[:idx], name[idx+1:]
	if scopeNS != nil && scopeNS.Prefix == prefix {
		return local, scopeNS
	}
	if ns, ok := inst.NamespaceByPrefix(prefix); ok {
		return local, ns
	}
	return name, scopeNS
}

func findChildInNamespace(n *Node, name string, ns *Namespace) *Node {
	// A nil query namespace matches root children; the root test is
	// on n, the node whose children are searched.
	isRoot := n.parent == nil
	for _, c := range n.children {
		if !NamesEqual(c.name, name) {
			continue
		}
		if c.namespace.Matches(ns, isRoot) {
			return c
		}
	}
	// Fall back to name-only match when no namespace filter was
	// supplied.
	if ns == nil {
		for _, c := range n.children {
			if NamesEqual(c.name, name) {
				return c
			}
		}
	}
	return nil
}

// findDescendant performs a bounded descendant search, used to
// implement "//name" and "/*/name" when a literal '*' segment doesn't
// match any real child.
func (inst *Instance) findDescendant(from *Node, rest []string) (*Node, []string) {
	if len(rest) == 0 {
		return nil, nil
	}
	targetName, _ := stripKeyPortion(rest[0], true)
	var found *Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if found != nil {
			return
		}
		for _, c := range n.children {
			if found != nil {
				return
			}
			if NamesEqual(c.name, targetName) {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(from)
	return found, rest[1:]
}

// splitPath tokenizes a path on '/'; in XPath mode "//" expands into
// an explicit wildcard segment, so "//name" and "/*/name" resolve the
// same way.
func splitPath(path string, xpath bool) []string {
	if xpath {
		path = strings.ReplaceAll(path, "//", "/"+WildcardName+"/")
	}
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// stripKeyPortion removes the list-key suffix from a path segment:
// "name=value" (plain dialect) or "name[key='value']" (XPath dialect).
// It returns the bare schema name and whether a key was present.
func stripKeyPortion(seg string, xpath bool) (string, bool) {
	if xpath {
		if idx := strings.IndexByte(seg, '['); idx >= 0 {
			return seg[:idx], true
		}
		return seg, false
	}
	if idx := strings.IndexByte(seg, '='); idx >= 0 {
		return seg[:idx], true
	}
	return seg, false
}
