package command

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.windlass.io/windlass/goutil/errorutil"
	"golang.org/x/sys/unix"
)

var debugFlag bool

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "windlass",
		Short: "Resolve API client credentials for a Kubernetes cluster",
		Long: "Resolve a usable client configuration (server URL, trust material, " +
			"authentication) from the in-cluster environment or a kubeconfig file.",
		// If an error occurs then cobra will print the Usage (i.e. --help)
		// but we don't want that. This still prints usage if user types
		// --help, or `windlass help <cmd>`.
		SilenceUsage: true,
		// We print the error via special handling in the Execute() function
		// so we silence it here. If this were false, then we would
		// double-print the error message.
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				logrus.SetLevel(logrus.DebugLevel)
			}
			color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.WithStack(cmd.Help())
		},
	}

	rootCmd.AddCommand(
		resolveCmd(),
		versionCmd(),
	)

	rootCmd.PersistentFlags().BoolVarP(
		&debugFlag,
		"debug",
		"d",
		false,
		"print debug output",
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	return rootCmd
}

// Execute is the entry point for the CLI app.
func Execute(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, unix.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}

	if errors.Is(err, context.Canceled) {
		fmt.Println("ABORT: Operation cancelled by user interruption.")
		stop()
		os.Exit(1)
	}

	if debugFlag {
		stackTrace := errorutil.EarliestStackTrace(err)
		errChainMsg := fmt.Sprintf("Error chain is:\n\t %s.\n\n", err.Error())
		if stackTrace != nil {
			log.Fatalf("%sStacktrace:\n%+v\n", errChainMsg, stackTrace)
		}
		log.Fatalf("%sFailed to get Stacktrace:\n%+v\n", errChainMsg, errors.Cause(err))
	}

	color.Red("\nError: %s\n\nRun with --debug for more information", err)
	os.Exit(1)
}
