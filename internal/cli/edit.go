package cli

import (
	"github.com/spf13/cobra"
)

func newEditCmd(o *options, edit EditFunc) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the editor window",
		Long: `Open the editor window, optionally on an existing .rtx document.

Examples:
  richtext edit notes.rtx
  richtext edit --password hunter2 secret.rtx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(o, edit, args, password)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for encrypted documents")
	return cmd
}

func runEdit(o *options, edit EditFunc, args []string, password string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return edit(o.cfg, path, password)
}
