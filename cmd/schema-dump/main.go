// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/sdcio/apteryx-schema/cmd/schema-dump/cmd"

func main() {
	cmd.Execute()
}
