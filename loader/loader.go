// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sdcio/apteryx-schema/schema"
)

// Load discovers, parses, dependency-sorts and merges schema-dialect
// files (and namespace `.map` files) found under cfg.SearchPath into
// one schema.Instance.
func Load(cfg Config) (*schema.Instance, error) {
	logger := cfg.logger()
	debug := cfg.Flags.Has(schema.DEBUG)

	schemaFiles, mapFiles, err := discoverFiles(cfg.SearchPath)
	if err != nil {
		return nil, err
	}
	if debug {
		logger.WithField("schemas", len(schemaFiles)).
			WithField("maps", len(mapFiles)).
			Debug("discovered schema files")
	}

	nsMap := schema.NewNamespaceMap()
	sort.Strings(mapFiles)
	for _, mf := range mapFiles {
		if err := loadMapFile(mf, nsMap); err != nil {
			logger.WithField("file", mf).WithError(err).
				Warn("skipping unreadable namespace map file")
		}
	}

	var allowed map[string]bool
	if cfg.ModelList != "" {
		allowed, err = loadModelList(cfg.ModelList)
		if err != nil {
			return nil, err
		}
	}

	var parsed []*parsedFile
	for _, path := range schemaFiles {
		pf, err := parseSchemaFile(path)
		if err != nil {
			logger.WithField("file", path).WithError(err).
				Warn("skipping unparseable schema file")
			continue
		}
		if !hasSchemaContent(pf.root) {
			logger.WithField("file", path).
				Debug("skipping file whose first significant child is not a schema or sibling node")
			continue
		}
		parsed = append(parsed, pf)
	}

	order := dependencySort(parsed, func(from, to *parsedFile) {
		logger.WithField("from", from.path).WithField("to", to.path).
			Warn("cyclic schema import detected; dropping the back-edge")
	})

	var native *schema.Namespace
	if cfg.NativeNamespaceHref != "" {
		native = schema.NewNamespace(cfg.NativeNamespaceHref, "", true)
	} else if len(order) > 0 {
		native = schema.NewNamespace(order[0].defaultNSHref, "", true)
	} else {
		native = schema.NewNamespace("", "", true)
	}

	b := schema.NewBuilder(native)
	var models []schema.Model
	seenModel := make(map[string]bool)

	for _, pf := range order {
		if allowed != nil {
			model, _ := pf.root.attr("model")
			if !allowed[model] {
				logger.WithField("file", pf.path).WithField("model", model).
					Debug("discarding module not present in model list")
				continue
			}
		}

		ns := namespaceFor(pf, nsMap, native)
		rawNode := convert(pf.root)
		if pf.root.dialectKind() != 'M' {
			// A file rooted directly at a schema node gets a synthetic
			// wrapper so the merge walks its top-level nodes uniformly.
			rawNode = &Node{DialectKind: 'M', Children: []*Node{rawNode}}
		}
		propagateModelAttrs(rawNode, "", "", "", nil, nil)

		if model, ok := pf.root.attr("model"); ok {
			if seenModel[model] {
				logger.WithField("model", model).Warn("duplicate model name")
			} else {
				seenModel[model] = true
				org, _ := pf.root.attr("organization")
				version, _ := pf.root.attr("version")
				features, _ := pf.root.attr("features")
				deviations, _ := pf.root.attr("deviations")
				models = append(models, schema.Model{
					NSHref: ns.Href, NSPrefix: ns.Prefix, ModelName: model,
					Organization: org, Version: version,
					Features:   splitList(features),
					Deviations: splitList(deviations),
				})
			}
		}

		model, _ := pf.root.attr("model")
		if debug {
			logger.WithField("file", pf.path).WithField("model", model).
				Debug("merging schema file")
		}
		mergeNodes(b, b.Root(), rawNode, model, ns, 0, logger)
	}

	resolveNamespaces(b.Root(), b)

	return b.Finish(nsMap, models, native, logger)
}

// hasSchemaContent reports whether a parsed file opens with schema
// content: a file rooted directly at an N or S element, or a model
// root whose first significant child is one.
func hasSchemaContent(root *rawElement) bool {
	kind := root.dialectKind()
	if kind == 'N' || kind == 'S' {
		return true
	}
	if kind != 'M' || len(root.Children) == 0 {
		return false
	}
	first := root.Children[0].dialectKind()
	return first == 'N' || first == 'S'
}

// namespaceFor resolves the *schema.Namespace for a parsed file: its
// prefix comes from the namespace map; a URI absent from the map gets
// an empty prefix.
func namespaceFor(pf *parsedFile, nsMap *schema.NamespaceMap, native *schema.Namespace) *schema.Namespace {
	href := pf.defaultNSHref
	if href == native.Href {
		return native
	}
	prefix, _ := nsMap.Prefix(href)
	// A URI absent from the namespace map counts as native; only mapped
	// URIs are foreign enough to need a display prefix.
	return schema.NewNamespace(href, prefix, !nsMap.Contains(href))
}

// resolveNamespaces re-points every descendant's namespace to the
// canonical *schema.Namespace instance carried by root,
// so namespace identity can be compared by pointer equality downstream.
func resolveNamespaces(root *schema.Node, b *schema.Builder) {
	canon := make(map[string]*schema.Namespace)
	var collect func(n *schema.Node)
	collect = func(n *schema.Node) {
		if n.Namespace() != nil {
			if _, ok := canon[n.Namespace().Href]; !ok {
				canon[n.Namespace().Href] = n.Namespace()
			}
		}
		for _, c := range n.Children() {
			collect(c)
		}
	}
	collect(root)

	var apply func(n *schema.Node)
	apply = func(n *schema.Node) {
		if n.Namespace() != nil {
			if c, ok := canon[n.Namespace().Href]; ok {
				b.SetNamespace(n, c)
			}
		}
		for _, c := range n.Children() {
			apply(c)
		}
	}
	apply(root)
}

// discoverFiles enumerates cfg.SearchPath for *.xml, *.xml.gz and
// *.map files.
func discoverFiles(searchPath []string) (schemaFiles, mapFiles []string, err error) {
	for _, dir := range searchPath {
		entries, rerr := os.ReadDir(dir)
		if rerr != nil {
			return nil, nil, rerr
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			full := filepath.Join(dir, name)
			switch {
			case strings.HasSuffix(name, ".map"):
				mapFiles = append(mapFiles, full)
			case strings.HasSuffix(name, ".xml"), strings.HasSuffix(name, ".xml.gz"):
				schemaFiles = append(schemaFiles, full)
			}
		}
	}
	sort.Strings(schemaFiles)
	return schemaFiles, mapFiles, nil
}

func loadModelList(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		allowed[line] = true
	}
	return allowed, nil
}

// convert filters a parsed raw element tree down to schema (N) and
// value-enum (V) dialect elements. Non-element content is already
// dropped by the decoder; this step discards non-N/V siblings such as
// further S/M wrapper nodes.
func convert(e *rawElement) *Node {
	n := &Node{
		DialectKind: e.dialectKind(),
		Name:        mustAttr(e, "name"),
		Attrs:       attrMap(e),
	}
	for _, c := range e.Children {
		switch c.dialectKind() {
		case 'N', 'V':
			n.Children = append(n.Children, convert(c))
		}
	}
	return n
}

func mustAttr(e *rawElement, name string) string {
	v, _ := e.attr(name)
	return v
}

func attrMap(e *rawElement) map[string]string {
	m := make(map[string]string, len(e.XMLAttr))
	for _, a := range e.XMLAttr {
		if a.Name.Space == "" || a.Name.Space == "xmlns" {
			if a.Name.Space == "xmlns" {
				continue
			}
			m[a.Name.Local] = a.Value
		}
	}
	return m
}

// propagateModelAttrs pushes model/organization/version/features/
// deviations attributes down the whole subtree: every descendant that
// does not carry its own `model` attribute is stamped with the nearest
// such ancestor's set, and a descendant with its own `model` starts a
// new set for its subtree. Namespace boundaries are not considered, so
// the attributes are copied onto every such descendant, not only the
// first one under each boundary.
func propagateModelAttrs(n *Node, model, org, version string, features, deviations []string) {
	if m, ok := n.Attrs["model"]; ok && m != "" {
		model = m
		org = n.Attrs["organization"]
		version = n.Attrs["version"]
		features = splitList(n.Attrs["features"])
		deviations = splitList(n.Attrs["deviations"])
	} else if model != "" {
		n.Attrs["model"] = model
		n.Attrs["organization"] = org
		n.Attrs["version"] = version
		if len(features) > 0 {
			n.Attrs["features"] = strings.Join(features, ",")
		}
		if len(deviations) > 0 {
			n.Attrs["deviations"] = strings.Join(deviations, ",")
		}
	}
	for _, c := range n.Children {
		propagateModelAttrs(c, model, org, version, features, deviations)
	}
}
