package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/goliatone/go-schemadocs"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	configPath  string
	docsDir     string
	outputDir   string
	logProvider string
	logLevel    string
	preview     bool

	module *schemadocs.Module
}

var moduleBuilder = schemadocs.New

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "schemadocs",
		Short:         "Render TypeScript type blocks into markdown documentation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&opts.docsDir, "docs-dir", "", "Documentation root (overrides config)")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Build output directory (overrides config)")
	flags.StringVar(&opts.logProvider, "log-provider", "", "Logging provider: console, gologger or none")
	flags.StringVar(&opts.logLevel, "log-level", "", "Minimum log level")
	flags.BoolVar(&opts.preview, "preview", false, "Render markdown output for the terminal")

	root.AddCommand(
		newBuildCommand(opts),
		newPageCommand(opts),
		newTypeCommand(opts),
		newModulesCommand(opts),
	)
	return root
}

func (o *cliOptions) load(cmd *cobra.Command) error {
	cfg := schemadocs.DefaultConfig()
	if path := strings.TrimSpace(o.configPath); path != "" {
		loaded, err := schemadocs.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.docsDir != "" {
		cfg.DocsDir = o.docsDir
	}
	if o.outputDir != "" {
		cfg.OutputDir = o.outputDir
	}
	if o.logProvider != "" {
		cfg.Logging.Provider = o.logProvider
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("initialise schemadocs: %w", err)
	}
	o.module = module
	return nil
}

// output returns the writer markdown results go to. With --preview the
// markdown is buffered and rendered through glamour by flush.
func (o *cliOptions) output(cmd *cobra.Command) (io.Writer, func() error) {
	out := cmd.OutOrStdout()
	if !o.preview {
		return out, func() error { return nil }
	}
	buf := &strings.Builder{}
	return buf, func() error {
		rendered, err := renderPreview(buf.String())
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, rendered)
		return err
	}
}

func renderPreview(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("preview renderer: %w", err)
	}
	return renderer.Render(markdown)
}
