package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mindmap/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mindmap %s\n", version.Version)
		},
	}
}
