// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package loader discovers schema-dialect files on a search path,
// parses each one, topologically sorts them on namespace dependency,
// and merges them into a single schema.Instance.
package loader

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sdcio/apteryx-schema/schema"
)

// Config carries the loader's inputs: an explicit struct rather than
// a bare search-path string plus scattered parameters.
type Config struct {
	// SearchPath lists directories to scan for *.xml, *.xml.gz and
	// *.map files, in order.
	SearchPath []string

	// ModelList, if non-empty, names a file listing the `model`
	// attribute values to retain; modules not listed are parsed but
	// discarded.
	ModelList string

	// NativeNamespaceHref designates the native namespace; an empty
	// value means the first loaded module's root namespace.
	NativeNamespaceHref string

	// Flags is the shared bit-flag set; the loader itself only reads
	// DEBUG, which enables per-file trace output on Logger.
	Flags schema.Flags

	Logger *log.Logger
}

// ParseSearchPath splits a colon-separated search path string into a
// Config.SearchPath slice.
func ParseSearchPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ":")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.StandardLogger()
}
