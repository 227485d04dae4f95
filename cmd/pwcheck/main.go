// Command pwcheck scores passwords from the terminal and prepares admin keys
// for the API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/logging"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var flush func()

	root := &cobra.Command{
		Use:   "pwcheck",
		Short: "Password and passphrase strength checks",
		Long: `pwcheck runs the same analyzer as the strength API locally.

Passwords passed as arguments end up in shell history; omit the argument to
read from stdin instead.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				os.Setenv("LOG_LEVEL", "debug")
			}
			f, err := logging.Install("development")
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			flush = f
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if flush != nil {
				flush()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAnalyzeCmd(),
		newCrackTimeCmd(),
		newPassphraseCmd(),
		newHashKeyCmd(),
	)
	return root
}

func logger() *zap.Logger { return zap.L().Named("pwcheck") }
