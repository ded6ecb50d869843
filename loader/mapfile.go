// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sdcio/apteryx-schema/schema"
	"golang.org/x/text/cases"
)

var prefixFold = cases.Fold()

// loadMapFile parses one `.map` namespace file: line-oriented
// text, `#`-prefixed comment lines, data lines of `URI SP prefix`.
// Later entries override earlier ones for the same URI. Prefixes are
// compared fold-cased via golang.org/x/text/cases so "Foo" and "foo"
// are treated as the same display prefix when a file redeclares one.
func loadMapFile(path string, into *schema.NamespaceMap) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	seen := make(map[string]string) // folded prefix -> canonical prefix already set
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("%s:%d: malformed map line %q", path, lineNo, line)
		}
		uri, prefix := fields[0], fields[1]
		folded := prefixFold.String(prefix)
		if canon, ok := seen[folded]; ok {
			prefix = canon
		} else {
			seen[folded] = prefix
		}
		into.Set(uri, prefix)
	}
	return sc.Err()
}
