package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openhwp/hwpview/export"
	"github.com/openhwp/hwpview/view"
)

var (
	exportOutput string
	exportFormat string
)

var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Export the document as plain text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0], "text")
	},
}

var markdownCmd = &cobra.Command{
	Use:   "markdown <file>",
	Short: "Export the document as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0], "markdown")
	},
}

var htmlCmd = &cobra.Command{
	Use:   "html <file>",
	Short: "Export the document as HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0], "html")
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export using the configured default format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if format == "" {
			format = cfg.Format
		}
		if format == "" {
			format = "markdown"
		}
		return runExport(cmd, args[0], format)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{textCmd, markdownCmd, htmlCmd, exportCmd} {
		cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
		rootCmd.AddCommand(cmd)
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "text, markdown, or html")
}

func runExport(cmd *cobra.Command, path, format string) error {
	v, err := loadView(path)
	if err != nil {
		return err
	}
	out, err := render(v, format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, out)
}

func render(v *view.DocumentView, format string) (string, error) {
	switch format {
	case "text":
		return export.Text(v), nil
	case "markdown":
		return export.Markdown(v), nil
	case "html":
		return export.HTML(v)
	}
	return "", fmt.Errorf("unknown format: %s", format)
}

// writeOutput prints to stdout, or writes the named file. A relative
// output path lands in the configured output directory.
func writeOutput(cmd *cobra.Command, data string) error {
	if exportOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), data)
		return nil
	}
	target := exportOutput
	if cfg.OutputDir != "" && !filepath.IsAbs(target) {
		target = filepath.Join(cfg.OutputDir, target)
	}
	if err := os.WriteFile(target, []byte(data), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", target)
	return nil
}
