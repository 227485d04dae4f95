package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/strength"
	"github.com/5w1tchy/strength-api/internal/validate"
)

const maxRunes = 4096

type analyzeOpts struct {
	asJSON   bool
	params   string
	wordlist string
}

func newAnalyzeCmd() *cobra.Command {
	var o analyzeOpts
	cmd := &cobra.Command{
		Use:   "analyze [password]",
		Short: "Score a password",
		Long: `Scores a password and prints entropy, estimated crack time, feedback and
suggestions. Without an argument the first line of stdin is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := loadAnalyzer(o.params, o.wordlist)
			if err != nil {
				return err
			}
			pw, err := passwordArg(cmd, args)
			if err != nil {
				return err
			}
			if err := validate.MaxRunes(pw, maxRunes); err != nil {
				return fmt.Errorf("password: %w", err)
			}
			res := an.Analyze(pw)
			logger().Debug("analyzed", zap.Int("score", res.Score), zap.Int("length", res.Length))
			if o.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().StringVar(&o.params, "params", "", "YAML file with scoring tunables")
	cmd.Flags().StringVar(&o.wordlist, "wordlist", "", "extra wordlist merged into the dictionary")
	return cmd
}

func loadAnalyzer(paramsPath, wordlistPath string) (*strength.Analyzer, error) {
	var extra []*strength.Dictionary
	if wordlistPath != "" {
		d, err := strength.LoadDictionaryFile(wordlistPath)
		if err != nil {
			return nil, err
		}
		extra = append(extra, d)
	}
	return strength.Load(paramsPath, extra...)
}

// passwordArg returns args[0], or the first stdin line without its line
// ending. Other whitespace is kept.
func passwordArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

func printResult(w io.Writer, r strength.Result) {
	fmt.Fprintf(w, "Score:        %d/100\n", r.Score)
	fmt.Fprintf(w, "Entropy:      %.1f bits\n", r.EntropyBits)
	fmt.Fprintf(w, "Crack time:   %s\n", r.BruteForceTime)
	b := r.CharacterBreakdown
	fmt.Fprintf(w, "Characters:   %d lower, %d upper, %d digits, %d symbols, %d other\n",
		b.Lowercase, b.Uppercase, b.Digit, b.Symbol, b.Other)
	for _, f := range r.Feedback {
		fmt.Fprintf(w, "  + %s\n", f)
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}
