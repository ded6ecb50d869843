// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/viper"

	"github.com/sdcio/apteryx-schema/loader"
	"github.com/sdcio/apteryx-schema/schema"
)

// loadInstance builds a loader.Config from the bound viper flags and
// loads a merged schema.Instance.
func loadInstance() (*schema.Instance, error) {
	cfg := loader.Config{
		SearchPath: loader.ParseSearchPath(viper.GetString("search-path")),
		ModelList:  viper.GetString("model-list"),
	}
	return loader.Load(cfg)
}
