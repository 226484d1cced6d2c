package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.windlass.io/windlass/pkg/buildstamp"
)

const binaryName = "windlass"

func versionCmd() *cobra.Command {
	verboseFlag := false
	shortFlag := false

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints the version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildstmp := buildstamp.Get()
			v := buildstmp.Version()
			if shortFlag {
				fmt.Println(v)
				return nil
			}
			fmt.Printf("%v %v\n", binaryName, v)
			if verboseFlag {
				buildstamp.PrintVerboseVersion(os.Stdout)
			}
			return nil
		},
	}
	versionCmd.Flags().BoolVarP(
		&verboseFlag,
		"verbose",
		"v",
		false, // value
		"Set to true for verbose output",
	)
	versionCmd.Flags().BoolVarP(
		&shortFlag,
		"short",
		"s",
		false, // value
		"Set to true for short output",
	)
	return versionCmd
}
