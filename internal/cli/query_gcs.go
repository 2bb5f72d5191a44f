package cli

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/gcs"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var sha1Hex = regexp.MustCompile(`^[a-fA-F\d]{40}$`)

var (
	queryCmd = &cobra.Command{
		Use:   "query [password]",
		Short: "Check whether a password is in a GCS leaked password database",
		Args: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) > 0 {
				password = args[0]
			}
			return queryCommand(cmd.OutOrStdout(), password)
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	queryCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "GCS input file (required)")
	queryCmd.MarkFlagRequired("in-file")
	queryCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")
	queryCmd.Flags().BoolVarP(&hashed, "hashed", "s", false, "If the supplied password will be a Hexadecimal SHA1 hash or a plain text string.")

	rootCmd.AddCommand(queryCmd)
}

func queryCommand(out io.Writer, password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	searcher := gcs.NewReader(inputFile)
	if err := searcher.Initialize(); err != nil {
		return err
	}

	if !interactive {
		return queryDatabase(out, searcher, password)
	}

	label := "Password"
	if hashed {
		label = "SHA1 Hex hash"
		log.Info().Msgf("flag 'hashed' is set. Please use SHA1 hashed passwords.")
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := processPassword(input)
			return err
		},
	}
	if !hashed {
		prompt.Mask = '*'
	}

	log.Info().Msgf("running interactive session. ^C to exit")
	for {
		input, err := prompt.Run()
		if err != nil {
			if err.Error() == "^C" || err.Error() == "^D" {
				log.Info().Msgf("Goodbye")
				return nil
			}
			return err
		}

		if err = queryDatabase(out, searcher, input); err != nil {
			log.Error().Err(err).Msg("error during query")
		}
	}
}

func queryDatabase(out io.Writer, searcher *gcs.Reader, password string) error {
	hash, err := processPassword(password)
	if err != nil {
		return err
	}

	exists, err := searcher.Exists(hash)
	if err != nil {
		return err
	}

	if exists {
		_, err = fmt.Fprintln(out, "Password is present")
	} else {
		_, err = fmt.Fprintln(out, "Password is not present")
	}
	return err
}

func processPassword(password string) (uint64, error) {
	if len(password) == 0 {
		return 0, errors.New("please enter a valid password")
	}

	if !hashed {
		return gcs.Hash(password), nil
	}

	if !sha1Hex.MatchString(password) {
		return 0, errors.New("input is not a valid SHA1 Hexadecimal hash")
	}
	return gcs.U64FromHex(password[0:16])
}
