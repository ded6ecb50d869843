// Copyright (c) 2017, 2019, AT&T Intellectual Property.
// All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/danos/encoding/rfc7951"
	"github.com/sdcio/apteryx-schema/data/datanode"
	"github.com/sdcio/apteryx-schema/schema"
)

// jsonValueKind selects a leaf's typed JSON representation: integer
// for range-constrained values, boolean for true/false enumerations,
// string otherwise.
type jsonValueKind int

const (
	jsonString jsonValueKind = iota
	jsonInteger
	jsonBoolean
)

func classifyJSONValue(sn *schema.Node, value string) jsonValueKind {
	if sn.Pattern() == "" && sn.Range() != "" {
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			return jsonInteger
		}
		if _, err := strconv.ParseUint(value, 10, 64); err == nil {
			return jsonInteger
		}
	}
	if isTwoValueBooleanEnum(sn) && (value == "true" || value == "false") {
		return jsonBoolean
	}
	return jsonString
}

func isTwoValueBooleanEnum(sn *schema.Node) bool {
	enums := sn.Enums()
	if len(enums) != 2 {
		return false
	}
	seen := map[string]bool{}
	for _, e := range enums {
		seen[e.Value] = true
	}
	return seen["true"] && seen["false"]
}

func (t *Translator) writeJSONValue(buf *bytes.Buffer, sn *schema.Node, value string) {
	if !t.Flags.Has(schema.JSON_TYPES) {
		enc, _ := json.Marshal(value)
		buf.Write(enc)
		return
	}
	switch classifyJSONValue(sn, value) {
	case jsonInteger:
		buf.WriteString(value)
	case jsonBoolean:
		buf.WriteString(value)
	default:
		enc, _ := json.Marshal(value)
		buf.Write(enc)
	}
}

// ToJSON renders a data tree rooted at root, addressed by schema node
// sn, as JSON.
func (t *Translator) ToJSON(sn *schema.Node, root datanode.DataNode) ([]byte, error) {
	t.trace("to-json", []string{root.Name()})
	var buf bytes.Buffer
	if err := t.encodeJSONChildren(&buf, sn, root, sn.Namespace(), []string{}, true, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *Translator) encodeJSONChildren(buf *bytes.Buffer, sn *schema.Node, n datanode.DataNode, parentNS *schema.Namespace, path []string, topLevel bool, treeRoot datanode.DataNode) error {
	buf.WriteByte('{')
	first := true
	for _, cn := range sortChildren(sn, n.Children()) {
		csn := sn.ChildByName(cn.Name())
		if csn == nil {
			childPath := append(append([]string{}, path...), cn.Name())
			return schema.NewNoSchemaNodeError(childPath)
		}
		if !csn.IsReadable() && csn.Mode() != "" {
			continue
		}
		if t.Flags.Has(schema.CONFIG) && csn.Kind() == schema.KindLeaf && !csn.IsWritable() {
			continue
		}
		childPath := append(append([]string{}, path...), cn.Name())
		ok, err := t.checkConditions(csn, treeRoot, childPath)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		// An empty container is dropped; a presence container is kept
		// even when it has no children.
		var inner bytes.Buffer
		if csn.Kind() == schema.KindContainer {
			if err := t.encodeJSONChildren(&inner, csn, cn, csn.Namespace(), childPath, false, treeRoot); err != nil {
				return err
			}
			if inner.Len() == len("{}") {
				continue
			}
		}

		if !first {
			buf.WriteByte(',')
		}
		first = false

		fmt.Fprintf(buf, "%q:", t.childName(parentNS, csn))

		switch csn.Kind() {
		case schema.KindLeaf:
			value, _ := datanode.Value(cn)
			value = t.displayValue(csn, value)
			t.writeJSONValue(buf, csn, value)

		case schema.KindLeafList:
			keyNode := csn.ListKeyNode()
			values := sortLeafListValues(keyNode, leafListValues(cn))
			if t.Flags.Has(schema.JSON_ARRAYS) {
				buf.WriteByte('[')
				for i, v := range values {
					if i != 0 {
						buf.WriteByte(',')
					}
					t.writeJSONValue(buf, keyNode, t.displayValue(keyNode, v))
				}
				buf.WriteByte(']')
				break
			}
			// Without JSON_ARRAYS, a leaf-list renders as an object
			// mapping each value to itself.
			buf.WriteByte('{')
			for i, v := range values {
				if i != 0 {
					buf.WriteByte(',')
				}
				fmt.Fprintf(buf, "%q:", v)
				t.writeJSONValue(buf, keyNode, t.displayValue(keyNode, v))
			}
			buf.WriteByte('}')

		case schema.KindList:
			keyNode := csn.ListKeyNode()
			entries := sortListEntries(csn.ListKeyField(), cn.Children())
			if t.Flags.Has(schema.JSON_ARRAYS) {
				buf.WriteByte('[')
				for i, entry := range entries {
					if i != 0 {
						buf.WriteByte(',')
					}
					entryPath := append(append([]string{}, childPath...), entry.Name())
					if err := t.encodeJSONChildren(buf, keyNode, entry, csn.Namespace(), entryPath, false, treeRoot); err != nil {
						return err
					}
				}
				buf.WriteByte(']')
				break
			}
			// Without JSON_ARRAYS, a list renders as an object keyed by
			// each entry's key value.
			buf.WriteByte('{')
			for i, entry := range entries {
				if i != 0 {
					buf.WriteByte(',')
				}
				fmt.Fprintf(buf, "%q:", entry.Name())
				entryPath := append(append([]string{}, childPath...), entry.Name())
				if err := t.encodeJSONChildren(buf, keyNode, entry, csn.Namespace(), entryPath, false, treeRoot); err != nil {
					return err
				}
			}
			buf.WriteByte('}')

		default: // container / presence-container
			if csn.Kind() == schema.KindContainer {
				buf.Write(inner.Bytes())
				break
			}
			if err := t.encodeJSONChildren(buf, csn, cn, csn.Namespace(), childPath, false, treeRoot); err != nil {
				return err
			}
		}
	}
	buf.WriteByte('}')
	return nil
}

// FromJSON parses input against sn, producing a data tree.
// List-key values containing '/' are percent-encoded before becoming
// a data-tree node name.
func (t *Translator) FromJSON(sn *schema.Node, input []byte) (datanode.DataNode, error) {
	t.trace("from-json", nil)
	var decoded interface{}
	if err := rfc7951.Unmarshal(input, &decoded); err != nil {
		return nil, schema.NewMalformedMessageError(nil, err.Error())
	}
	return t.decodeJSON(sn, decoded, []string{})
}

func (t *Translator) decodeJSON(sn *schema.Node, value interface{}, path []string) (datanode.DataNode, error) {
	switch sn.Kind() {
	case schema.KindLeaf:
		if !sn.IsWritable() && sn.Mode() != "" {
			return nil, schema.NewNotWritableError(path)
		}
		s, err := scalarToString(value)
		if err != nil {
			return nil, err
		}
		if err := t.Inst.Validate(sn, s); err != nil {
			return nil, err
		}
		return datanode.NewLeaf(sn.Name(), t.Inst.TranslateFrom(sn, s)), nil

	default:
		if t.Flags.Has(schema.MODIFY_DATA) && sn.IsProxy() && !sn.IsWritable() {
			return nil, schema.NewNotWritableError(path)
		}
		obj, ok := value.(map[string]interface{})
		if !ok {
			return nil, schema.NewMalformedMessageError(path, "expected a JSON object")
		}
		byName := make(map[string]interface{}, len(obj))
		for key, raw := range obj {
			name := stripModulePrefix(key)
			if sn.ChildByName(name) == nil {
				return nil, schema.NewMalformedMessageError(append(path, name), "unknown element "+name)
			}
			byName[name] = raw
		}
		// Children are produced in schema declaration order so the
		// output is deterministic regardless of property order.
		var children []datanode.DataNode
		for _, csn := range sn.Children() {
			raw, present := objValue(byName, csn)
			if !present {
				continue
			}
			name := csn.Name()
			childPath := append(append([]string{}, path...), name)

			switch csn.Kind() {
			case schema.KindLeafList:
				keyNode := csn.ListKeyNode()
				scalars, err := leafListScalars(raw, childPath)
				if err != nil {
					return nil, err
				}
				var vals []datanode.DataNode
				for _, v := range scalars {
					s, err := scalarToString(v)
					if err != nil {
						return nil, err
					}
					if err := t.Inst.Validate(keyNode, s); err != nil {
						return nil, err
					}
					vals = append(vals, datanode.New(t.Inst.TranslateFrom(keyNode, s)))
				}
				children = append(children, datanode.New(name, vals...))

			case schema.KindList:
				keyNode := csn.ListKeyNode()
				entryObjs, keys, err := listEntries(raw, csn.ListKeyField(), childPath)
				if err != nil {
					return nil, err
				}
				var entries []datanode.DataNode
				for i, entryObj := range entryObjs {
					keyStr := datanode.EscapeKeySegment(keys[i])
					entryPath := append(append([]string{}, childPath...), keyStr)
					entry, err := t.decodeJSON(keyNode, entryObj, entryPath)
					if err != nil {
						return nil, err
					}
					entries = append(entries, datanode.New(keyStr, entry.Children()...))
				}
				children = append(children, datanode.New(name, entries...))

			default:
				child, err := t.decodeJSON(csn, raw, childPath)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
			}
		}
		return datanode.New(sn.Name(), children...), nil
	}
}

// leafListScalars accepts both leaf-list encodings: the array form and
// the value-keyed object form.
func leafListScalars(raw interface{}, path []string) ([]interface{}, error) {
	switch v := raw.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]interface{}, 0, len(v))
		for _, k := range keys {
			out = append(out, v[k])
		}
		return out, nil
	default:
		return nil, schema.NewMalformedMessageError(path, "expected an array or object")
	}
}

// listEntries accepts both list encodings. In the array form each
// entry object must carry its key field; in the key-keyed object form
// the property name is the key value.
func listEntries(raw interface{}, keyField *schema.Node, path []string) ([]map[string]interface{}, []string, error) {
	switch v := raw.(type) {
	case []interface{}:
		var objs []map[string]interface{}
		var keys []string
		for _, item := range v {
			entryObj, ok := item.(map[string]interface{})
			if !ok {
				return nil, nil, schema.NewMalformedMessageError(path, "expected an object")
			}
			if keyField == nil {
				return nil, nil, schema.NewKeyMissingError(path)
			}
			keyRaw, ok := entryObj[keyField.Name()]
			if !ok {
				return nil, nil, schema.NewKeyMissingError(path)
			}
			keyStr, err := scalarToString(keyRaw)
			if err != nil {
				return nil, nil, err
			}
			objs = append(objs, entryObj)
			keys = append(keys, keyStr)
		}
		return objs, keys, nil
	case map[string]interface{}:
		names := make([]string, 0, len(v))
		for k := range v {
			names = append(names, k)
		}
		sort.Strings(names)
		var objs []map[string]interface{}
		for _, k := range names {
			entryObj, ok := v[k].(map[string]interface{})
			if !ok {
				return nil, nil, schema.NewMalformedMessageError(path, "expected an object")
			}
			objs = append(objs, entryObj)
		}
		return objs, names, nil
	default:
		return nil, nil, schema.NewMalformedMessageError(path, "expected an array or object")
	}
}

func scalarToString(v interface{}) (string, error) {
	switch tv := v.(type) {
	case string:
		return tv, nil
	case bool:
		if tv {
			return "true", nil
		}
		return "false", nil
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64), nil
	case json.Number:
		return tv.String(), nil
	case nil:
		return "", nil
	default:
		return "", schema.NewInvalidValueError(nil, fmt.Sprintf("%v", v))
	}
}

// objValue finds the decoded property matching a schema child,
// honoring the '-'/'_' name equivalence.
func objValue(byName map[string]interface{}, csn *schema.Node) (interface{}, bool) {
	if v, ok := byName[csn.Name()]; ok {
		return v, true
	}
	for k, v := range byName {
		if schema.NamesEqual(k, csn.Name()) {
			return v, true
		}
	}
	return nil, false
}

func stripModulePrefix(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			return name[i+1:]
		}
	}
	return name
}
