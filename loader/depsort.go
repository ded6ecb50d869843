// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"sort"

	"github.com/danos/utils/tsort"
)

// dependencySort orders files so that a file whose root references
// another file's default namespace URI loads after it. The graph and
// its topological sort are built with tsort, keyed by file path.
//
// tsort.Sort fails outright on a cycle, but a schema load must
// tolerate cyclic imports rather than abort. When tsort reports a
// cycle, dependencySort falls back to dependencySortTolerant, a
// color-marked DFS that breaks each back-edge, reports it through
// onCycle, and still produces a full, deterministic order.
func dependencySort(files []*parsedFile, onCycle func(from, to *parsedFile)) []*parsedFile {
	byHref := make(map[string][]*parsedFile)
	byPath := make(map[string]*parsedFile, len(files))
	for _, f := range files {
		byHref[f.defaultNSHref] = append(byHref[f.defaultNSHref], f)
		byPath[f.path] = f
	}

	sorted := append([]*parsedFile(nil), files...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].path < sorted[j].path })

	g := tsort.New()
	for _, f := range sorted {
		g.AddVertex(f.path)
	}
	for _, f := range sorted {
		for _, href := range dependencyHrefs(f) {
			if href == f.defaultNSHref {
				continue
			}
			for _, dep := range byHref[href] {
				g.AddEdge(f.path, dep.path)
			}
		}
	}

	names, err := g.Sort()
	if err != nil {
		return dependencySortTolerant(sorted, byHref, onCycle)
	}

	order := make([]*parsedFile, 0, len(names))
	for _, name := range names {
		if f, ok := byPath[name]; ok {
			order = append(order, f)
		}
	}
	return order
}

// color is the three-state DFS marker dependencySortTolerant uses for
// cycle detection.
type color int

const (
	colorInit color = iota
	colorPending
	colorDone
)

// dependencySortTolerant is the cycle-tolerant fallback used only when
// tsort.Sort reports a cyclic graph: a color-marked DFS that drops a
// back-edge the moment it revisits a pending node, reporting the drop
// via onCycle, and otherwise orders dependencies before dependents
//.
func dependencySortTolerant(sorted []*parsedFile, byHref map[string][]*parsedFile, onCycle func(from, to *parsedFile)) []*parsedFile {
	colors := make(map[*parsedFile]color, len(sorted))
	var order []*parsedFile

	var visit func(f *parsedFile)
	visit = func(f *parsedFile) {
		switch colors[f] {
		case colorDone:
			return
		case colorPending:
			// Cycle: stop here rather than recursing further.
			return
		}
		colors[f] = colorPending

		for _, href := range dependencyHrefs(f) {
			if href == f.defaultNSHref {
				continue
			}
			for _, dep := range byHref[href] {
				if colors[dep] == colorPending {
					onCycle(f, dep)
					continue
				}
				visit(dep)
			}
		}

		colors[f] = colorDone
		order = append(order, f)
	}

	for _, f := range sorted {
		if colors[f] != colorDone {
			visit(f)
		}
	}
	return order
}

// dependencyHrefs lists the distinct xmlns URIs referenced anywhere
// in f's file.
func dependencyHrefs(f *parsedFile) []string {
	hrefs := make([]string, 0, len(f.allXMLNS))
	for _, href := range f.allXMLNS {
		hrefs = append(hrefs, href)
	}
	sort.Strings(hrefs)
	return hrefs
}
