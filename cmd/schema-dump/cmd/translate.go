// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdcio/apteryx-schema/data/encoding"
	"github.com/sdcio/apteryx-schema/schema"
)

func newTranslateCmd() *cobra.Command {
	var path string
	var toJSON bool
	c := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate an XML or JSON instance document at path into the other format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance()
			if err != nil {
				return err
			}
			sn, err := inst.Lookup(nil, path, schema.LookupOpts{})
			if err != nil {
				return err
			}
			input, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			tr := encoding.New(inst, schema.NS_PREFIX|schema.JSON_ARRAYS|schema.JSON_TYPES, nil)
			var out []byte
			if toJSON {
				dn, _, err := tr.FromXML(sn, input, false)
				if err != nil {
					return err
				}
				out, err = tr.ToJSON(sn, dn)
				if err != nil {
					return err
				}
			} else {
				dn, err := tr.FromJSON(sn, input)
				if err != nil {
					return err
				}
				out, err = tr.ToXML(sn, dn)
				if err != nil {
					return err
				}
			}
			fmt.Println(string(out))
			return nil
		},
	}
	c.Flags().StringVar(&path, "path", "/", "Schema path the document is rooted at")
	c.Flags().BoolVar(&toJSON, "to-json", false, "Translate XML input to JSON (default is JSON to XML)")
	return c
}
