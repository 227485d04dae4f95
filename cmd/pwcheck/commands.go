package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/5w1tchy/strength-api/internal/passphrase"
	"github.com/5w1tchy/strength-api/internal/security/password"
	"github.com/5w1tchy/strength-api/internal/strength"
	"github.com/5w1tchy/strength-api/internal/validate"
)

func newCrackTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crack-time <bits>",
		Short: "Estimate brute-force time for an entropy value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, err := validate.Bits(args[0])
			if err != nil {
				return fmt.Errorf("bits must be a non-negative number, got %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), strength.FormatCrackTime(bits))
			return nil
		},
	}
}

func newPassphraseCmd() *cobra.Command {
	var words int
	var score bool
	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Print a sample or random passphrase",
		Long: `Without --words prints one of the built-in sample passphrases. With
--words N (clamped to 3..12) generates a random one from the embedded pool.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				p   string
				err error
			)
			if cmd.Flags().Changed("words") {
				p, err = passphrase.Generate(words)
			} else {
				p, err = passphrase.Sample()
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			if score {
				res := strength.Analyze(p)
				fmt.Fprintf(cmd.OutOrStdout(), "score %d, %.1f bits, %s\n", res.Score, res.EntropyBits, res.BruteForceTime)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&words, "words", passphrase.DefaultWords, "number of words to generate")
	cmd.Flags().BoolVar(&score, "score", false, "also print the analysis")
	return cmd
}

func newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Hash an admin key for ADMIN_KEY_HASH",
		Long: `Checks an admin key against the strength policy (at least 16 characters,
score >= 60) and prints its argon2id PHC string. ARGON2_* env vars set the
cost. Without an argument the first line of stdin is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := passwordArg(cmd, args)
			if err != nil {
				return err
			}
			key, warn, err := password.CheckKey(strength.Default(), raw)
			if warn != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s (score %d)\n", warn.Message, warn.Score)
				for _, s := range warn.Suggestions {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", s)
				}
			}
			switch {
			case errors.Is(err, password.ErrTooShort):
				return fmt.Errorf("key must be at least %d characters", password.MinLen)
			case errors.Is(err, password.ErrWeak):
				return fmt.Errorf("key scores below %d", password.MinScore)
			case err != nil:
				return err
			}
			phc, err := password.FromEnv().Hash(key)
			if err != nil {
				return err
			}
			logger().Debug("admin key hashed")
			fmt.Fprintln(cmd.OutOrStdout(), phc)
			return nil
		},
	}
}
