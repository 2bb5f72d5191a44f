package cli

import (
	"fmt"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/gcs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a GCS leaked password database from a Pwned Passwords file (SHA1) or a plain password list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createCommand()
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	createCmd.Flags().Uint64VarP(&probability, "false-positive-rate", "p", 16777216, "False positive rate for queries, 1-in-p.")
	createCmd.Flags().Uint64VarP(&indexGranularity, "index-granularity", "g", 1024, "Entries per index point (16 bytes each).")
	createCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "Input file path (required)")
	createCmd.MarkFlagRequired("in-file")
	createCmd.Flags().StringVarP(&outFile, "out-file", "o", "./pwned.gcs", "GCS file output path")
	createCmd.Flags().BoolVar(&plain, "plain", false, "The input is a plain text password list, one per line, instead of SHA1 hashes.")
	createCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite any existing files while writing the results.")
	createCmd.Flags().BoolVarP(&skipWait, "yes", "y", false, "Start right away, without the pause to cancel.")

	rootCmd.AddCommand(createCmd)
}

func createCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	file, err := os.Open(inputFile)
	if err != nil {
		return err
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing input file")
		}
	}(file)

	abs, err := filepath.Abs(outFile)
	if err != nil {
		return fmt.Errorf("could not get absolute path of file: %w", err)
	}

	if !overwrite {
		if _, err = os.Stat(abs); !os.IsNotExist(err) {
			return fmt.Errorf("file %s exists and overwrite flag is not set", outFile)
		}
	}

	out, err := os.Create(abs)
	if err != nil {
		return err
	}

	defer func(out *os.File) {
		if err := out.Close(); err != nil {
			log.Error().Err(err).Msg("error closing GCS file")
		}
	}(out)

	builder := gcs.NewBuilder(file, out, probability, indexGranularity)
	if plain {
		builder.WithParser(gcs.PlainParser)
	}

	return builder.Process(skipWait)
}
