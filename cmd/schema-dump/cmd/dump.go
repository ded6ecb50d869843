// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdcio/apteryx-schema/loader"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Dump the canonical XML rendering of the merged schema",
		RunE:  runDump,
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	inst, err := loadInstance()
	if err != nil {
		return err
	}
	fmt.Println(loader.DumpXML(inst))
	return nil
}
