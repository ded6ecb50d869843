// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"github.com/sdcio/apteryx-schema/schema"
	log "github.com/sirupsen/logrus"
)

// mergeNodes walks rawParent's children alongside mergedParent's
// already-merged schema.Node children, merging equal (name, namespace)
// pairs and inserting the rest. model is the model name of the file
// currently being merged and is carried through the recursion; where a
// re-inserted node is placed is decided by ns.
func mergeNodes(b *schema.Builder, mergedParent *schema.Node, rawParent *Node, model string, ns *schema.Namespace, depth int, logger *log.Logger) {
	for _, raw := range rawParent.Children {
		mergeOneNode(b, mergedParent, raw, model, ns, depth, logger)
	}
}

// Node is the minimal view mergeNodes needs of a parsed dialect
// element, decoupled from rawElement so this file only depends on
// the shape the loader hands it after per-element interpretation.
type Node struct {
	DialectKind byte
	Name        string
	Attrs       map[string]string
	Children    []*Node
}

func mergeOneNode(b *schema.Builder, mergedParent *schema.Node, raw *Node, model string, ns *schema.Namespace, depth int, logger *log.Logger) {
	if raw.DialectKind == 'V' {
		// Value-enums are never tree children; they attach to the
		// enclosing leaf directly.
		b.AddEnum(mergedParent, rawToEnum(raw))
		return
	}

	var existing *schema.Node
	for _, c := range mergedParent.Children() {
		if schema.NamesEqual(c.Name(), raw.Name) && c.Namespace().Matches(ns, false) {
			existing = c
			break
		}
	}

	if existing != nil {
		b.CopyMissingAttrs(existing, buildDetached(b, raw, ns), logger)
		mergeNodes(b, existing, raw, model, ns, depth+1, logger)
		return
	}

	fresh := buildTree(b, raw, ns)
	if depth > 0 {
		insertAfterNamespaceBlock(b, mergedParent, fresh, ns)
		return
	}
	b.AddChild(mergedParent, fresh)
}

func rawToEnum(raw *Node) *schema.ValueEnum {
	return &schema.ValueEnum{
		Name:  raw.Name,
		Value: raw.Attrs["value"],
		Help:  raw.Attrs["help"],
	}
}

// insertAfterNamespaceBlock re-inserts a new per-model node
// immediately after the block of existing siblings sharing ns, so
// per-model nodes precede augmentations from other modules.
func insertAfterNamespaceBlock(b *schema.Builder, parent, fresh *schema.Node, ns *schema.Namespace) {
	children := parent.Children()
	idx := len(children)
	for i := len(children) - 1; i >= 0; i-- {
		if children[i].Namespace().Matches(ns, false) {
			idx = i + 1
			break
		}
		if i == 0 {
			idx = 0
		}
	}
	b.InsertChildAt(parent, fresh, idx)
}

// buildTree converts one parsed dialect subtree (already filtered to
// N/V nodes by the caller) into a detached schema.Node subtree,
// recording its schema-dialect attributes via the Builder.
func buildTree(b *schema.Builder, raw *Node, ns *schema.Namespace) *schema.Node {
	n := buildDetached(b, raw, ns)
	for _, c := range raw.Children {
		if c.DialectKind == 'V' {
			b.AddEnum(n, rawToEnum(c))
			continue
		}
		child := buildTree(b, c, ns)
		b.AddChild(n, child)
	}
	return n
}

func buildDetached(b *schema.Builder, raw *Node, ns *schema.Namespace) *schema.Node {
	n := b.NewNode(raw.Name, ns)
	applyAttrs(b, n, raw.Attrs)
	return n
}

func applyAttrs(b *schema.Builder, n *schema.Node, attrs map[string]string) {
	if v, ok := attrs["mode"]; ok {
		b.SetMode(n, v)
	}
	if v, ok := attrs["default"]; ok {
		b.SetDefault(n, v)
	}
	if v, ok := attrs["pattern"]; ok {
		b.SetPattern(n, v)
	}
	if v, ok := attrs["range"]; ok {
		b.SetRange(n, v)
	}
	if v, ok := attrs["idref_module"]; ok {
		b.SetIdrefModule(n, v)
	}
	if v, ok := attrs["when"]; ok {
		b.SetWhen(n, v)
	}
	if v, ok := attrs["must"]; ok {
		b.SetMust(n, v)
	}
	if v, ok := attrs["if-feature"]; ok {
		b.SetIfFeature(n, v)
	}
	if _, ok := attrs["model"]; ok {
		b.SetModelInfo(n, attrs["model"], attrs["organization"], attrs["version"],
			splitList(attrs["features"]), splitList(attrs["deviations"]))
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	cur := ""
	for _, r := range s {
		if r == ',' || r == ' ' {
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}
