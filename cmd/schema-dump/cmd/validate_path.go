// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdcio/apteryx-schema/schema"
)

func newValidatePathCmd() *cobra.Command {
	var xpath bool
	c := &cobra.Command{
		Use:   "validate-path <path>",
		Short: "Resolve a path against the merged schema and report its kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance()
			if err != nil {
				return err
			}
			n, err := inst.Lookup(nil, args[0], schema.LookupOpts{XPath: xpath})
			if err != nil {
				return err
			}
			fmt.Printf("%s: kind=%s mode=%q\n", args[0], n.Kind(), n.Mode())
			return nil
		},
	}
	c.Flags().BoolVar(&xpath, "xpath", false, "Parse the path in XPath dialect")
	return c
}
