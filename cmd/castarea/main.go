// Command castarea records a display through the GNOME Shell screencast
// service, optionally with a webcam overlaid in the bottom-right corner.
//
// It asks which display and webcam to use, prints the gstreamer pipeline it
// hands to the shell, records for a while and stops.
//
// Examples:
//
//	# Record to test.mkv for a minute.
//	castarea
//
//	# Record ten seconds without audio to talk.mkv, writing a preview of the
//	# webcam placement first.
//	castarea --duration 10s --audio=false --preview preview.png talk.mkv
//
//	# List displays and webcams and quit.
//	castarea --list-devices
//
// Every flag can also be set in the environment, eg CASTAREA_DURATION=5m, or in
// castarea.yaml in the user config directory.
package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// exitError carries the exit code for a failure after arguments were parsed.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	return e.err.Error()
}

func main() {
	log.SetFlags(0)
	os.Exit(main0(os.Args[1:]))
}

func main0(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}
	var ee exitError
	if errors.As(err, &ee) {
		log.Printf("%v", ee.err)
		return ee.code
	}
	log.Printf("%v", err)
	log.Print(cmd.UsageString())
	return 2
}

func newRootCmd() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:           "castarea [flags] [filename]",
		Short:         "Record a display with an optional webcam overlay",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return exitError{1, err}
			}
			setVerbose(cfg.Verbose)
			filename := defaultFilename
			if len(args) > 0 {
				filename = args[0]
			}
			if cfg.ListDevices {
				err = listDevices(cmd.Context(), cfg, cmd.OutOrStdout())
			} else {
				err = record(cmd.Context(), cfg, filename, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if err != nil {
				return exitError{1, err}
			}
			return nil
		},
	}
	addFlags(cmd.Flags())
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}
