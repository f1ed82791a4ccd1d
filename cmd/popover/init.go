package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/popover/internal/config"
	"github.com/vango-dev/popover/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		yamlFormat bool
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default config file",
		Long: `Write popover.json (or popover.yaml with --yaml) with the default
settings into dir, or the working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			name := config.JSONFileName
			if yamlFormat {
				name = config.YAMLFileName
			}
			path := filepath.Join(dir, name)

			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yamlFormat, "yaml", false, "Write YAML instead of JSON")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New("E142").
			WithDetail(path+" already exists.").
			WithSuggestion("Pass --force to overwrite it")
	}
	return config.New().SaveTo(path)
}
