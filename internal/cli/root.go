// Package cli holds the richtext command tree. The window itself is
// injected by main so the commands stay testable without a display.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"richtext/internal/config"
	"richtext/internal/log"
)

// EditFunc opens the editor window on path, which may be empty.
type EditFunc func(cfg config.Config, path, password string) error

type options struct {
	cfgFile string
	debug   bool
	cfg     config.Config
	cleanup func()
}

// NewRootCmd builds the command tree. edit runs the window for the edit
// command and for the bare root command.
func NewRootCmd(version string, edit EditFunc) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:     "richtext",
		Short:   "A small rich text editor",
		Long:    `A rich text editor with paragraph styles, bullet lists and inline images, saved as .rtx files.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.cleanup != nil {
				o.cleanup()
			}
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(o, edit, args, "")
		},
	}
	root.PersistentFlags().StringVarP(&o.cfgFile, "config", "c", "", "config file (yaml)")
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "log at debug level")

	root.AddCommand(newEditCmd(o, edit), newInspectCmd(o), newInitConfigCmd())
	return root
}

// setup loads the config and starts logging. Logging stays off unless a
// log file is configured or --debug sends it to stderr.
func (o *options) setup(stderr io.Writer) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	switch {
	case cfg.Log.File != "":
		cleanup, err := log.Init(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		o.cleanup = cleanup
	case o.debug:
		log.InitWriter(stderr)
	default:
		return nil
	}
	level := log.ParseLevel(cfg.Log.Level)
	if o.debug {
		level = log.LevelDebug
	}
	log.SetMinLevel(level)
	return nil
}
