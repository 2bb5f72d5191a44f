// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/alvinbaena/pwd-analyzer/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pwd-analyzer [COMMAND] [OPTIONS]",
		Short: "Analyze password strength and check passwords against leaked password lists",
		Long: "Score passwords, estimate how long they would take to crack and suggest improvements. " +
			"Passwords are checked against a leaked password list, which can be a compact GCS (Golomb Coded Set) " +
			"file built from the Pwned Passwords (haveibeenpwned.com) dumps",
		SilenceUsage: true,
	}
)

// configFlags are bound to the configuration keys, flags win over the environment.
var configFlags = map[string]string{
	"locale":           "LOCALE",
	"leak-source":      "LEAK_SOURCE",
	"leak-file":        "LEAK_FILE",
	"gcs-file":         "GCS_FILE",
	"crack-time-model": "CRACK_TIME_MODEL",
}

//goland:noinspection GoUnhandledErrorResult
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")

	rootCmd.PersistentFlags().String("locale", "en", "Language for suggestions and crack times (en, es)")
	rootCmd.PersistentFlags().String("leak-source", config.SourceDefault, "Leaked passwords source: default, file, gcs, redis or s3")
	rootCmd.PersistentFlags().String("leak-file", "", "Plain text leaked passwords file, one per line. Used with --leak-source file")
	rootCmd.PersistentFlags().String("gcs-file", "", "GCS leaked passwords file. Used with --leak-source gcs")
	rootCmd.PersistentFlags().String("crack-time-model", config.ModelFeatures, "Crack time model: features or score")

	for flag, key := range configFlags {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
}

func Execute() error {
	return rootCmd.Execute()
}
