// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package encoding implements bidirectional XML/JSON <-> data-tree
// conversion driven by the schema, plus the defaulting, trimming and
// depth traversals and the canonical child sort. Each direction is a
// recursive walk parameterized by schema.Flags.
package encoding

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sdcio/apteryx-schema/condition"
	"github.com/sdcio/apteryx-schema/data/datanode"
	"github.com/sdcio/apteryx-schema/schema"
)

// Translator carries the instance, flags, and condition engine shared
// by every translation entry point within a single call.
type Translator struct {
	Inst  *schema.Instance
	Flags schema.Flags
	Cond  *condition.Engine
	Log   *log.Logger
}

// New builds a Translator. A nil cond makes every when/must/if-feature
// check succeed, matching condition.NewEngine(nil)'s behavior.
func New(inst *schema.Instance, flags schema.Flags, cond *condition.Engine) *Translator {
	if cond == nil {
		cond = condition.NewEngine(nil)
	}
	return &Translator{Inst: inst, Flags: flags, Cond: cond, Log: log.StandardLogger()}
}

// trace emits a DEBUG-gated log line for one translation step.
func (t *Translator) trace(op string, path []string) {
	if !t.Flags.Has(schema.DEBUG) || t.Log == nil {
		return
	}
	t.Log.WithField("op", op).WithField("path", "/"+strings.Join(path, "/")).Trace("translate")
}

// EditBuckets collects the xpaths touched by each edit-mode operation
// during an XML->data-tree walk; the caller collects them after the
// walk.
type EditBuckets struct {
	Deletes  []string
	Removes  []string
	Creates  []string
	Replaces []string
}

func (b *EditBuckets) record(op string, xpath string) {
	switch op {
	case "delete":
		b.Deletes = append(b.Deletes, xpath)
	case "remove":
		b.Removes = append(b.Removes, xpath)
	case "create":
		b.Creates = append(b.Creates, xpath)
	case "replace":
		b.Replaces = append(b.Replaces, xpath)
	}
}

// legalOperationTransition: a current merge can transition to any
// operation; any other current operation requires the new operation
// to equal it.
func legalOperationTransition(current, next string) bool {
	if current == "" || current == "merge" {
		return true
	}
	return current == next
}

// displayValue translates a canonical store value to its display form,
// folding in the identityref module prefix and skeleton stripping so
// both encoders render a leaf the same way.
func (t *Translator) displayValue(sn *schema.Node, value string) string {
	if t.Flags.Has(schema.STRIP_DATA) {
		return ""
	}
	value = t.Inst.TranslateTo(sn, value)
	if t.Flags.Has(schema.IDREF_VALUES) && sn.IdrefModule() != "" {
		value = sn.IdrefModule() + ":" + value
	}
	return value
}

// childName returns the display name csn should be addressed by,
// folding the prefix flags in: a name:local form when
// the child's namespace differs from the parent's and NS_PREFIX (or
// NS_MODEL_NAME, for the module-name variant) is set.
func (t *Translator) childName(parentNS *schema.Namespace, csn *schema.Node) string {
	if !t.Flags.Has(schema.NS_PREFIX) {
		return csn.Name()
	}
	ns := csn.Namespace()
	if ns == nil || parentNS == nil || ns.Href == parentNS.Href {
		return csn.Name()
	}
	if t.Flags.Has(schema.NS_MODEL_NAME) && csn.Model() != "" {
		return csn.Model() + ":" + csn.Name()
	}
	if ns.Prefix != "" {
		return ns.Prefix + ":" + csn.Name()
	}
	return csn.Name()
}

// sortChildren produces schema-order output: children are reordered
// by the index of their matching schema child among sn's children;
// ties (same schema child, as with repeated list entries or leaf-list
// values) preserve input order, which is why the sort must be stable.
func sortChildren(sn *schema.Node, children []datanode.DataNode) []datanode.DataNode {
	out := make([]datanode.DataNode, len(children))
	copy(out, children)
	index := func(name string) int {
		for i, c := range sn.Children() {
			if schema.NamesEqual(c.Name(), name) {
				return i
			}
		}
		return len(sn.Children())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return index(out[i].Name()) < index(out[j].Name())
	})
	return out
}

// sortLeafListValues orders leaf-list/list values: numeric when the
// underlying key node carries a range, lexical otherwise.
func sortLeafListValues(keyNode *schema.Node, values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	if keyNode != nil && keyNode.Range() != "" {
		sort.SliceStable(out, func(i, j int) bool {
			vi, oki := parseSignedInt(out[i])
			vj, okj := parseSignedInt(out[j])
			if oki && okj {
				return vi < vj
			}
			return out[i] < out[j]
		})
		return out
	}
	sort.Strings(out)
	return out
}

// sortListEntries orders list entries by key value, numeric when the
// key field carries a range, lexical otherwise.
func sortListEntries(keyField *schema.Node, entries []datanode.DataNode) []datanode.DataNode {
	out := make([]datanode.DataNode, len(entries))
	copy(out, entries)
	numeric := keyField != nil && keyField.Range() != ""
	sort.SliceStable(out, func(i, j int) bool {
		if numeric {
			vi, oki := parseSignedInt(out[i].Name())
			vj, okj := parseSignedInt(out[j].Name())
			if oki && okj {
				return vi < vj
			}
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

func parseSignedInt(s string) (int64, bool) {
	var v int64
	neg := false
	i := 0
	if len(s) == 0 {
		return 0, false
	}
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		v = v*10 + int64(s[i]-'0')
	}
	if neg {
		v = -v
	}
	return v, true
}

// checkConditions runs the when/must/if-feature checks a node carries,
// when CONDITIONS is set. It reports whether the node survives.
func (t *Translator) checkConditions(sn *schema.Node, root datanode.DataNode, path []string) (bool, error) {
	if !t.Flags.Has(schema.CONDITIONS) {
		return true, nil
	}
	checks := []struct {
		kind condition.Kind
		raw  string
	}{
		{condition.When, sn.When()},
		{condition.Must, sn.Must()},
		{condition.IfFeature, sn.IfFeature()},
	}
	for _, c := range checks {
		if c.raw == "" {
			continue
		}
		ok, err := t.Cond.Check(c.kind, root, path, c.raw)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
