package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngpepin/finder/pkg/version"
)

// versionCmd displays the running version of finder. The --short flag
// prints the bare version number for scripts.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of finder",
	Long:  `Display the version, commit, and build information of the finder CLI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		v := version.Get()
		if short {
			fmt.Println(v.Version)
		} else {
			fmt.Println(v.String())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	RootCmd.AddCommand(versionCmd)
}
