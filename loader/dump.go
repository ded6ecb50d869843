// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"sort"
	"strings"

	"github.com/sdcio/apteryx-schema/schema"
)

// schemaLocation is the informational xsi:schemaLocation value
// stamped on every dump's root.
const schemaLocation = "https://github.com/sdcio/apteryx-schema https://github.com/sdcio/apteryx-schema/schema.xsd"

// DumpXML produces the canonical XML rendering of a merged schema
// instance: hidden nodes elided, every non-native top-level
// node renamed "prefix:local", all nodes reattached to the apteryx
// namespace, root children sorted lexically, indentation enabled.
func DumpXML(inst *schema.Instance) string {
	var b strings.Builder
	b.WriteString(`<MODULE xmlns="https://github.com/sdcio/apteryx-schema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="` + schemaLocation + `">` + "\n")

	children := append([]*schema.Node(nil), inst.Root().Children()...)
	sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })

	for _, c := range children {
		dumpNode(&b, inst, c, 1)
	}
	b.WriteString("</MODULE>\n")
	return b.String()
}

func dumpNode(b *strings.Builder, inst *schema.Instance, n *schema.Node, depth int) {
	if n.IsHidden() {
		return
	}
	indent := strings.Repeat("  ", depth)
	tag := n.Name()
	if depth == 1 && !n.Namespace().IsNative() && n.Namespace().Prefix != "" {
		tag = n.Namespace().Prefix + ":" + n.Name()
	}
	b.WriteString(indent + "<" + tag)
	if n.Mode() != "" {
		b.WriteString(` mode="` + n.Mode() + `"`)
	}
	if def, ok := n.Default(); ok {
		b.WriteString(` default="` + def + `"`)
	}
	children := n.Children()
	if len(children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	for _, c := range children {
		dumpNode(b, inst, c, depth+1)
	}
	b.WriteString(indent + "</" + tag + ">\n")
}
