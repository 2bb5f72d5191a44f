package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/alvinbaena/pwd-analyzer/internal/api"
	"github.com/alvinbaena/pwd-analyzer/internal/config"
	"github.com/alvinbaena/pwd-analyzer/internal/util"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thinhdanggroup/executor"
)

var (
	analyzeCmd = &cobra.Command{
		Use:   "analyze [password]",
		Short: "Analyze the strength of a password",
		Args: func(cmd *cobra.Command, args []string) error {
			if interactive || inputFile != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeCommand(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
)

func init() {
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the analysis as JSON.")
	analyzeCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode, the password is read from a masked prompt.")
	analyzeCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "Analyze every password in a file, one per line.")
	analyzeCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of threads for --in-file. If omitted or less than 1, defaults to the number of logical processors.")

	rootCmd.AddCommand(analyzeCmd)
}

type analysisOutput struct {
	*strength.Result
	Reference api.ReferenceStrength `json:"reference"`
}

func analyzeCommand(ctx context.Context, out io.Writer, args []string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	analyzer, release, err := cfg.NewAnalyzer(ctx)
	if err != nil {
		return err
	}
	defer release()

	switch {
	case interactive:
		return runAnalyzeSession(out, analyzer)
	case inputFile != "":
		return analyzeFile(out, analyzer, inputFile, threads)
	default:
		return analyzeOne(out, analyzer, args[0])
	}
}

func analyzeOne(out io.Writer, analyzer *strength.Analyzer, password string) error {
	res, err := analyzer.Analyze(password)
	if err != nil {
		return err
	}

	result := analysisOutput{Result: res, Reference: api.Reference(password)}
	if jsonOutput {
		return json.NewEncoder(out).Encode(result)
	}
	return printAnalysis(out, result)
}

// printAnalysis never prints the password itself.
func printAnalysis(out io.Writer, r analysisOutput) error {
	leaked := "no"
	if r.Features.IsLeaked {
		leaked = "yes"
	}

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "Score:          %d/100 (%s)\n", r.Score, r.Category)
	fmt.Fprintf(w, "Length:         %d\n", r.Features.Length)
	fmt.Fprintf(w, "Entropy:        %.2f\n", r.Features.Entropy)
	fmt.Fprintf(w, "Leaked:         %s\n", leaked)
	fmt.Fprintf(w, "Time to crack:\n")

	names := make([]string, 0, len(r.TimeToCrack))
	for name := range r.TimeToCrack {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-14s%s\n", name+":", r.TimeToCrack[name])
	}

	fmt.Fprintf(w, "zxcvbn:         %d/4, %s\n", r.Reference.Score, r.Reference.CrackTimeDisplay)
	fmt.Fprintf(w, "Suggestions:\n")
	for _, s := range r.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}

	return w.Flush()
}

func runAnalyzeSession(out io.Writer, analyzer *strength.Analyzer) error {
	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a password")
			}
			return nil
		},
	}

	log.Info().Msgf("running interactive session. ^C to exit")
	for {
		password, err := prompt.Run()
		if err != nil {
			if err.Error() == "^C" || err.Error() == "^D" {
				log.Info().Msgf("Goodbye")
				// No error to avoid the default cobra error message
				return nil
			}
			return err
		}

		if err = analyzeOne(out, analyzer, password); err != nil {
			log.Error().Err(err).Msg("error analyzing password")
		}
	}
}

type batchResult struct {
	password string
	result   *strength.Result
	err      error
}

// analyzeFile analyzes the passwords of fileName on a worker pool and prints
// the results in file order: JSON lines with --json, tab separated otherwise.
func analyzeFile(out io.Writer, analyzer *strength.Analyzer, fileName string, workers int) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	var results []*batchResult
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			results = append(results, &batchResult{password: line})
		}
	}
	if err = scanner.Err(); err != nil {
		return err
	}

	if workers < 1 {
		workers = runtime.NumCPU()
	}
	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * workers,
		NumWorkers:    workers,
	})
	if err != nil {
		return err
	}
	defer tasks.Close()

	for _, r := range results {
		if err = tasks.Publish(analyzeBatchItem, analyzer, r); err != nil {
			return err
		}
	}
	tasks.Wait()

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			log.Error().Err(r.err).Msg("error analyzing password")
			continue
		}

		if jsonOutput {
			if err = enc.Encode(r.result); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(w, "%s\t%d\t%s\n", r.password, r.result.Score, r.result.Category)
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}

	log.Info().Msgf("analyzed %d passwords, %d failed", len(results)-failed, failed)
	return nil
}

func analyzeBatchItem(analyzer *strength.Analyzer, r *batchResult) {
	r.result, r.err = analyzer.Analyze(r.password)
}
