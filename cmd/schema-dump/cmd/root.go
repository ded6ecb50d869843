// Copyright (c) 2017-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the schema-dump CLI harness: a thin binding
// over the loader, path/query, and tree-translator packages.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() {
	rootCmd := &cobra.Command{
		Use:   "schema-dump",
		Short: "Load a merged schema and dump, validate, or translate against it",
	}

	cfgFile := rootCmd.PersistentFlags().String("config_file", "", "Path to config file.")
	rootCmd.PersistentFlags().String("search-path", "", "Colon-separated schema search path")
	rootCmd.PersistentFlags().String("model-list", "", "Path to a model-list filter file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
		viper.BindPFlags(cmd.Flags())
		viper.BindPFlags(rootCmd.PersistentFlags())
		viper.AutomaticEnv()
		return nil
	}

	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newValidatePathCmd())
	rootCmd.AddCommand(newTranslateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
