// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package encoding

import (
	"github.com/sdcio/apteryx-schema/data/datanode"
	"github.com/sdcio/apteryx-schema/schema"
)

// Traverse is the single flag-driven policy walk: ADD_MISSING_NULL,
// SET_NULL, ADD_DEFAULTS, and TRIM_DEFAULTS all fall out of one
// traversal, optionally restricted to depth >= restrictDepth when
// FILTER_RDEPTH is set. It returns a new tree; the input is never
// mutated.
func (t *Translator) Traverse(sn *schema.Node, n datanode.DataNode, restrictDepth int) (datanode.DataNode, error) {
	t.trace("traverse", []string{n.Name()})
	return t.traverse(sn, n, restrictDepth, 0)
}

// Apply runs the policy traversal and, when the DEPTH flag is set, the
// depth-trimming pass over the result in one call.
func (t *Translator) Apply(sn *schema.Node, n datanode.DataNode, restrictDepth, maxDepth int) (datanode.DataNode, error) {
	out, err := t.Traverse(sn, n, restrictDepth)
	if err != nil {
		return nil, err
	}
	if t.Flags.Has(schema.DEPTH) && maxDepth > 0 {
		out = TrimByDepth(sn, out, maxDepth)
	}
	return out, nil
}

func (t *Translator) traverse(sn *schema.Node, n datanode.DataNode, restrictDepth, depth int) (datanode.DataNode, error) {
	apply := !t.Flags.Has(schema.FILTER_RDEPTH) || depth >= restrictDepth

	switch sn.Kind() {
	case schema.KindLeaf:
		return t.traverseLeaf(sn, n, apply)

	case schema.KindLeafList, schema.KindList:
		// Values/entries themselves aren't subject to default/null
		// policies; only their presence as a whole is.
		return n, nil

	default:
		byName := make(map[string]datanode.DataNode)
		for _, c := range n.Children() {
			byName[c.Name()] = c
		}

		var children []datanode.DataNode
		for _, csn := range sn.Children() {
			if csn.Name() == schema.WildcardName {
				if existing, ok := byName[schema.WildcardName]; ok {
					children = append(children, existing)
				}
				continue
			}
			existing, present := byName[csn.Name()]

			if !present {
				if csn.Kind() == schema.KindLeaf && apply && t.Flags.Has(schema.ADD_MISSING_NULL) {
					children = append(children, datanode.NewLeaf(csn.Name(), ""))
				} else if csn.Kind() == schema.KindLeaf && apply && t.Flags.Has(schema.ADD_DEFAULTS) {
					if def, ok := csn.Default(); ok {
						children = append(children, datanode.NewLeaf(csn.Name(), def))
					}
				}
				continue
			}

			child, err := t.traverse(csn, existing, restrictDepth, depth+1)
			if err != nil {
				return nil, err
			}
			if child == nil {
				continue
			}
			if !csn.IsContainer() {
				children = append(children, child)
				continue
			}
			if len(child.Children()) == 0 && !csn.IsPresenceContainer() {
				continue
			}
			children = append(children, child)
		}
		// Preserve any data-tree children the schema doesn't name
		// (e.g. '*' wildcard entries already handled above, or
		// siblings from an unrelated namespace).
		for _, c := range n.Children() {
			if sn.ChildByName(c.Name()) == nil {
				children = append(children, c)
			}
		}
		return datanode.New(n.Name(), children...), nil
	}
}

func (t *Translator) traverseLeaf(sn *schema.Node, n datanode.DataNode, apply bool) (datanode.DataNode, error) {
	value, hasValue := datanode.Value(n)

	if apply && t.Flags.Has(schema.SET_NULL) {
		if sn.IsHidden() || (!sn.IsWritable() && sn.IsConfig()) {
			return nil, nil
		}
		if !sn.IsWritable() {
			return nil, schema.NewNotWritableError(nil)
		}
		return datanode.NewLeaf(sn.Name(), ""), nil
	}

	if apply && t.Flags.Has(schema.ADD_DEFAULTS) {
		if def, ok := sn.Default(); ok && (!hasValue || value == "") {
			return datanode.NewLeaf(sn.Name(), def), nil
		}
	}

	if apply && t.Flags.Has(schema.TRIM_DEFAULTS) {
		if def, ok := sn.Default(); ok && hasValue && value == def {
			return nil, nil
		}
	}

	return n, nil
}

// TrimByDepth removes any subtree below the given depth. Children are
// sorted first and the output is rebuilt rather than edited in place,
// so the tree isn't mutated while being walked.
func TrimByDepth(sn *schema.Node, n datanode.DataNode, maxDepth int) datanode.DataNode {
	return trimByDepth(sn, n, maxDepth, 1)
}

func trimByDepth(sn *schema.Node, n datanode.DataNode, maxDepth, depth int) datanode.DataNode {
	if depth >= maxDepth {
		if len(n.Children()) == 0 {
			return n
		}
		return datanode.New(n.Name())
	}

	sorted := sortChildren(sn, n.Children())
	var kept []datanode.DataNode
	for _, c := range sorted {
		csn := sn.ChildByName(c.Name())
		if csn == nil {
			kept = append(kept, c)
			continue
		}
		kept = append(kept, trimByDepth(csn, c, maxDepth, depth+1))
	}
	return datanode.New(n.Name(), kept...)
}
