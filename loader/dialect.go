// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// rawElement mirrors one parsed XML element of the schema dialect,
// before it is interpreted into schema.Node form.
type rawElement struct {
	XMLName xml.Name
	XMLAttr []xml.Attr   `xml:",any,attr"`
	Children []*rawElement `xml:",any"`
}

func (e *rawElement) attr(name string) (string, bool) {
	for _, a := range e.XMLAttr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// dialectKind returns the schema-dialect element class from the first letter
// of its tag name: 'N' schema node, 'V' value-enum, 'M' model
// root, 'S' legal opening sibling. Any other leading letter is
// "other" and causes the file to be skipped.
func (e *rawElement) dialectKind() byte {
	if len(e.XMLName.Local) == 0 {
		return 0
	}
	return e.XMLName.Local[0]
}

// xmlnsDecls returns every xmlns:prefix="uri" declaration carried
// directly on this element (Go's encoding/xml surfaces namespace
// declarations as attributes in the "xmlns" space).
func (e *rawElement) xmlnsDecls() map[string]string {
	decls := make(map[string]string)
	for _, a := range e.XMLAttr {
		if a.Name.Space == "xmlns" {
			decls[a.Name.Local] = a.Value
		} else if a.Name.Local == "xmlns" && a.Name.Space == "" {
			decls[""] = a.Value
		}
	}
	return decls
}

// parsedFile is one parsed schema-dialect or namespace-map file, with
// the bookkeeping the loader needs before merging.
type parsedFile struct {
	path          string
	root          *rawElement
	defaultNSHref string
	allXMLNS      map[string]string // prefix (or "" for default) -> uri, collected from every element
}

// parseSchemaFile parses one *.xml or *.xml.gz file into a parsedFile.
// Non-element content is ignored; parse failure is returned to the
// caller to log-and-skip.
func parseSchemaFile(path string) (*parsedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	dec := xml.NewDecoder(r)
	var root rawElement
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	pf := &parsedFile{path: path, root: &root, allXMLNS: make(map[string]string)}
	collectXMLNS(&root, pf.allXMLNS)
	for prefix, href := range root.xmlnsDecls() {
		if prefix == "" {
			pf.defaultNSHref = href
		}
	}
	return pf, nil
}

func collectXMLNS(e *rawElement, into map[string]string) {
	for prefix, href := range e.xmlnsDecls() {
		if _, exists := into[prefix]; !exists {
			into[prefix] = href
		}
	}
	for _, c := range e.Children {
		collectXMLNS(c, into)
	}
}
