package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/popover/internal/config"
	"github.com/vango-dev/popover/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	noColor    bool
	jsonErrors bool
}

func main() {
	root, opts := rootCmd()
	if err := root.Execute(); err != nil {
		printError(os.Stderr, err, opts.jsonErrors)
		os.Exit(1)
	}
}

// printError writes err for a person, or as one JSON object per line for
// tools.
func printError(w io.Writer, err error, asJSON bool) {
	if !asJSON {
		errors.Print(w, err)
		return
	}
	var pe *errors.PopoverError
	if !stderrors.As(err, &pe) {
		pe = errors.Newf(errors.CategoryCLI, "%s", err)
	}
	fmt.Fprintln(w, pe.FormatJSON())
}

func rootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "popover",
		Short: "Anchored popovers in the browser and the terminal",
		Long: `popover hosts a popover shared by a row of trigger buttons.

The same popover core drives both hosts:

  • serve  a live web page, positioned in the browser over a websocket
  • tui    a terminal UI, positioned in character cells`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: popover.json or popover.yaml in the working directory)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored error output")
	root.PersistentFlags().BoolVar(&opts.jsonErrors, "json-errors", false, "Print errors as JSON")

	load := func() (*config.Config, error) {
		return loadConfig(opts.configPath)
	}

	root.AddCommand(
		serveCmd(load),
		tuiCmd(load),
		initCmd(),
		errorsCmd(),
		versionCmd(),
	)
	return root, opts
}

// loadConfig reads the config at path, or from the working directory when
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Newf(errors.CategoryCLI, "Cannot read the working directory").Wrap(err)
	}
	return config.Load(wd)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
