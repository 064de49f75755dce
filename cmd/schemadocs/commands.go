package main

import (
	"fmt"
	"path/filepath"

	docscmd "github.com/goliatone/go-schemadocs/internal/commands/docs"
	"github.com/spf13/cobra"
)

func newBuildCommand(opts *cliOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "build [pages...]",
		Short: "Process the docs tree into the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := opts.module.Commands().BuildSite.Execute(cmd.Context(), docscmd.BuildSiteCommand{
				Pages:  args,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}
			cfg := opts.module.Config()
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Checked %s\n", cfg.DocsDir)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %s into %s\n", cfg.DocsDir, cfg.OutputDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Process pages without writing output")
	return cmd
}

func newPageCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "page <path>",
		Short: "Print a page with its directives expanded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, flush := opts.output(cmd)
			err := opts.module.Commands().RenderPage.Execute(cmd.Context(), docscmd.RenderPageCommand{
				Path:   args[0],
				Output: out,
			})
			if err != nil {
				return err
			}
			return flush()
		},
	}
}

func newTypeCommand(opts *cliOptions) *cobra.Command {
	var (
		dir  string
		file string
	)
	cmd := &cobra.Command{
		Use:   "type <TypeName>",
		Short: "Print a type block and every type it references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = opts.module.Config().DocsDir
			}
			out, flush := opts.output(cmd)
			err := opts.module.Commands().ResolveType.Execute(cmd.Context(), docscmd.ResolveTypeCommand{
				Dir:      dir,
				TypeName: args[0],
				File:     file,
				Output:   out,
			})
			if err != nil {
				return err
			}
			return flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory holding the schema file (defaults to the docs dir)")
	cmd.Flags().StringVar(&file, "file", "", "Schema file name (defaults to the configured schema file)")
	return cmd
}

func newModulesCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "modules [dir]",
		Short: "Print the module table for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.module.Config().DocsDir
			if len(args) == 1 {
				dir = args[0]
			}
			out, flush := opts.output(cmd)
			err := opts.module.Commands().ListModules.Execute(cmd.Context(), docscmd.ListModulesCommand{
				Dir:    filepath.Clean(dir),
				Output: out,
			})
			if err != nil {
				return err
			}
			return flush()
		},
	}
}
