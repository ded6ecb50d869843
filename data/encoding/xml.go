// Copyright (c) 2019, AT&T Intellectual Property. All rights reserved.
//
// Copyright (c) 2015-2017 by Brocade Communications Systems, Inc.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package encoding

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/sdcio/apteryx-schema/data/datanode"
	"github.com/sdcio/apteryx-schema/schema"
)

// rawElement is a generic decode target that keeps attributes and
// children around so the schema-driven walk below can interpret them.
type rawElement struct {
	XMLName  xml.Name
	XMLAttr  []xml.Attr    `xml:",any,attr"`
	Chardata string        `xml:",chardata"`
	Children []*rawElement `xml:",any"`
}

func (e *rawElement) attr(local string) (string, bool) {
	for _, a := range e.XMLAttr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// ToXML renders a data tree rooted at root, addressed by schema node
// sn, as XML.
func (t *Translator) ToXML(sn *schema.Node, root datanode.DataNode) ([]byte, error) {
	t.trace("to-xml", []string{root.Name()})
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	name := xml.Name{Local: strings.TrimPrefix(root.Name(), "/")}

	if err := t.encodeXML(enc, sn, root, name, sn.Namespace(), []string{}, root); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *Translator) encodeXML(enc *xml.Encoder, sn *schema.Node, n datanode.DataNode, name xml.Name, parentNS *schema.Namespace, path []string, treeRoot datanode.DataNode) error {
	if !sn.IsReadable() && sn.Mode() != "" {
		return nil
	}

	ok, err := t.checkConditions(sn, treeRoot, path)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	switch sn.Kind() {
	case schema.KindLeaf:
		if t.Flags.Has(schema.CONFIG) && !sn.IsWritable() {
			return nil
		}
		value, _ := datanode.Value(n)
		value = t.displayValue(sn, value)
		if ns := sn.Namespace(); ns != nil && (parentNS == nil || ns.Href != parentNS.Href) {
			name.Space = ns.Href
		}
		enc.EncodeToken(xml.StartElement{Name: name})
		enc.EncodeToken(xml.CharData([]byte(value)))
		return enc.EncodeToken(xml.EndElement{Name: name})

	case schema.KindLeafList:
		keyNode := sn.ListKeyNode()
		values := leafListValues(n)
		values = sortLeafListValues(keyNode, values)
		for _, v := range values {
			v = t.displayValue(keyNode, v)
			enc.EncodeToken(xml.StartElement{Name: name})
			enc.EncodeToken(xml.CharData([]byte(v)))
			enc.EncodeToken(xml.EndElement{Name: name})
		}
		return nil

	case schema.KindList:
		keyNode := sn.ListKeyNode()
		keyField := sn.ListKeyField()
		entries := sortListEntries(keyField, n.Children())
		for _, entry := range entries {
			entryPath := append(append([]string{}, path...), entry.Name())
			enc.EncodeToken(xml.StartElement{Name: name})
			if t.Flags.Has(schema.XPATH) && keyField != nil {
				keyName := xml.Name{Local: keyField.Name()}
				enc.EncodeToken(xml.StartElement{Name: keyName})
				enc.EncodeToken(xml.CharData([]byte(entry.Name())))
				enc.EncodeToken(xml.EndElement{Name: keyName})
			}
			if err := t.encodeXMLChildren(enc, keyNode, entry, sn.Namespace(), entryPath, treeRoot); err != nil {
				return err
			}
			if err := enc.EncodeToken(xml.EndElement{Name: name}); err != nil {
				return err
			}
		}
		return nil

	default: // container or presence-container
		var inner bytes.Buffer
		innerEnc := xml.NewEncoder(&inner)
		if err := t.encodeXMLChildren(innerEnc, sn, n, sn.Namespace(), path, treeRoot); err != nil {
			return err
		}
		innerEnc.Flush()
		if inner.Len() == 0 && !sn.IsPresenceContainer() {
			return nil
		}
		enc.EncodeToken(xml.StartElement{Name: name})
		if err := t.encodeXMLChildren(enc, sn, n, sn.Namespace(), path, treeRoot); err != nil {
			return err
		}
		return enc.EncodeToken(xml.EndElement{Name: name})
	}
}

func (t *Translator) encodeXMLChildren(enc *xml.Encoder, sn *schema.Node, n datanode.DataNode, parentNS *schema.Namespace, path []string, treeRoot datanode.DataNode) error {
	for _, cn := range sortChildren(sn, n.Children()) {
		csn := sn.ChildByName(cn.Name())
		if csn == nil {
			childPath := append(append([]string{}, path...), cn.Name())
			return schema.NewNoSchemaNodeError(childPath)
		}
		if !csn.IsReadable() && csn.Mode() != "" {
			continue
		}
		childPath := append(append([]string{}, path...), cn.Name())
		cname := xml.Name{Local: t.childName(parentNS, csn)}
		if err := t.encodeXML(enc, csn, cn, cname, parentNS, childPath, treeRoot); err != nil {
			return err
		}
	}
	return nil
}

func leafListValues(n datanode.DataNode) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Name())
	}
	return out
}

// FromXML parses input against sn, producing a data tree. In edit
// mode, operation attributes are interpreted and their xpaths are
// collected into buckets; outside edit mode, an "operation" attribute
// is rejected with *operation-not-supported.
func (t *Translator) FromXML(sn *schema.Node, input []byte, editMode bool) (datanode.DataNode, *EditBuckets, error) {
	t.trace("from-xml", nil)
	var root rawElement
	if err := xml.Unmarshal(input, &root); err != nil {
		return nil, nil, schema.NewMalformedMessageError(nil, err.Error())
	}
	buckets := &EditBuckets{}
	dn, err := t.decodeXML(sn, &root, []string{}, "merge", editMode, buckets)
	if err != nil {
		return nil, nil, err
	}
	return dn, buckets, nil
}

func (t *Translator) decodeXML(sn *schema.Node, elem *rawElement, path []string, curOp string, editMode bool, buckets *EditBuckets) (datanode.DataNode, error) {
	op, hasOp := elem.attr("operation")
	if hasOp {
		if !editMode {
			return nil, schema.NewOperationNotSupportedError(path, op)
		}
		if !legalOperationTransition(curOp, op) {
			return nil, schema.NewOperationNotSupportedError(path, op)
		}
		curOp = op
		buckets.record(op, xpathOf(path))
	}

	switch sn.Kind() {
	case schema.KindLeaf, schema.KindLeafList:
		value := elem.Chardata
		if editMode {
			if err := t.Inst.Validate(sn, value); err != nil {
				return nil, schema.NewInvalidValueError(path, value)
			}
		}
		value = t.Inst.TranslateFrom(sn, value)
		return datanode.NewLeaf(sn.Name(), value), nil

	default:
		grouped := make(map[string][]*rawElement)
		var order []string
		for _, c := range elem.Children {
			name := c.XMLName.Local
			if _, ok := grouped[name]; !ok {
				order = append(order, name)
			}
			grouped[name] = append(grouped[name], c)
		}

		var children []datanode.DataNode
		for _, name := range order {
			csn := sn.ChildByName(name)
			if csn == nil {
				return nil, schema.NewMalformedMessageError(path, "unknown element "+name)
			}
			if editMode && csn.Mode() != "" && !csn.IsWritable() {
				return nil, schema.NewNotWritableError(append(path, name))
			}
			if t.Flags.Has(schema.MODIFY_DATA) && csn.IsProxy() && !csn.IsWritable() {
				return nil, schema.NewNotWritableError(append(path, name))
			}

			switch csn.Kind() {
			case schema.KindList:
				keyNode := csn.ListKeyNode()
				keyField := csn.ListKeyField()
				var entries []datanode.DataNode
				for _, raw := range grouped[name] {
					keyVal := listKeyValue(raw, keyField)
					entryPath := append(append([]string{}, path...), name)
					if !t.Flags.Has(schema.STRIP_KEY) {
						entryPath = append(entryPath, keyVal)
					}
					entryChildren, err := t.decodeXMLListEntry(keyNode, raw, entryPath, curOp, editMode, buckets)
					if err != nil {
						return nil, err
					}
					entries = append(entries, datanode.New(keyVal, entryChildren...))
				}
				children = append(children, datanode.New(name, entries...))

			case schema.KindLeafList:
				var vals []datanode.DataNode
				for _, raw := range grouped[name] {
					vals = append(vals, datanode.New(raw.Chardata))
				}
				children = append(children, datanode.New(name, vals...))

			default:
				raw := grouped[name][len(grouped[name])-1]
				childPath := append(append([]string{}, path...), name)
				child, err := t.decodeXML(csn, raw, childPath, curOp, editMode, buckets)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
			}
		}

		// The incoming XML ended here but the schema continues below:
		// append a wildcard child so callers retrieve everything
		// underneath.
		if len(elem.Children) == 0 && len(sn.Children()) > 0 && sn.ChildByName(schema.WildcardName) == nil {
			children = append(children, datanode.NewWildcard())
		}

		return datanode.New(sn.Name(), children...), nil
	}
}

// decodeXMLListEntry decodes one list entry's children against the
// list's wildcard schema child, which describes an entry's shape.
func (t *Translator) decodeXMLListEntry(keyNode *schema.Node, raw *rawElement, path []string, curOp string, editMode bool, buckets *EditBuckets) ([]datanode.DataNode, error) {
	dn, err := t.decodeXML(keyNode, raw, path, curOp, editMode, buckets)
	if err != nil {
		return nil, err
	}
	return dn.Children(), nil
}

// listKeyValue extracts a list entry's key: a matching attribute,
// else the first child element named after the key field, else "*".
func listKeyValue(raw *rawElement, keyField *schema.Node) string {
	if keyField == nil {
		return schema.WildcardName
	}
	if v, ok := raw.attr(keyField.Name()); ok {
		return v
	}
	for _, c := range raw.Children {
		if schema.NamesEqual(c.XMLName.Local, keyField.Name()) {
			return c.Chardata
		}
	}
	return schema.WildcardName
}

func xpathOf(path []string) string {
	return "/" + strings.Join(path, "/")
}
