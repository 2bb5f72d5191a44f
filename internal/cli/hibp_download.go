package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	downloadCmd = &cobra.Command{
		Use:   "download",
		Short: "Download the latest haveibeenpwned hashes (SHA1) to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return downloadCommand(cmd.Context())
		},
	}
)

func init() {
	downloadCmd.Flags().StringVarP(&outFile, "out-file", "o", "./pwned-sha1.txt", "Output file path. Can be absolute or relative.")
	downloadCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite any existing files while writing the results.")
	downloadCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of threads to use for the download. If omitted or less than 1, defaults to eight times the number of logical processors of the machine.")
	downloadCmd.Flags().IntVar(&ranges, "ranges", hibp.AllRanges, "Number of hash ranges to download, from 00000. Mostly useful for testing.")
	downloadCmd.Flags().BoolVarP(&skipWait, "yes", "y", false, "Start right away, without the pause to cancel.")

	rootCmd.AddCommand(downloadCmd)
}

func downloadCommand(ctx context.Context) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	if ranges < 1 || ranges > hibp.AllRanges {
		return fmt.Errorf("ranges must be between 1 and %d", hibp.AllRanges)
	}

	abs, err := filepath.Abs(outFile)
	if err != nil {
		return fmt.Errorf("could not get absolute path of file: %w", err)
	}

	if !overwrite {
		if _, err = os.Stat(abs); err == nil {
			return fmt.Errorf("file %s exists and overwrite flag is not set", abs)
		}
	}

	file, err := os.Create(abs)
	if err != nil {
		return err
	}

	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing Pwned Passwords file")
		}
	}(file)

	return hibp.NewDownloader(file, threads).ProcessRanges(ctx, ranges, skipWait)
}
