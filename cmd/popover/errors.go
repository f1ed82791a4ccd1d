package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/popover/internal/errors"
)

func errorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors [code]",
		Short: "List error codes or explain one",
		Long: `List every error code popover can report, or explain one.

Examples:
  popover errors
  popover errors E110`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				code := strings.ToUpper(args[0])
				t, ok := errors.GetTemplate(code)
				if !ok {
					return errors.Newf(errors.CategoryCLI, "Unknown error code %s", code).
						WithSuggestion("Run popover errors to list every code")
				}
				fmt.Fprintf(out, "%s  %s (%s)\n\n  %s\n", code, t.Message, t.Category, t.Detail)
				return nil
			}
			for _, code := range errors.GetAllCodes() {
				t, _ := errors.GetTemplate(code)
				fmt.Fprintf(out, "%s  %-10s %s\n", code, t.Category, t.Message)
			}
			return nil
		},
	}
}
