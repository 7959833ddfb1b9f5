package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openhwp/hwpview/export"
)

var tablesCmd = &cobra.Command{
	Use:   "tables <file>",
	Short: "List the document's tables as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(args[0])
		if err != nil {
			return err
		}
		n := 0
		for _, sec := range v.Sections {
			for _, pv := range sec.Paragraphs {
				for _, tv := range pv.Tables {
					n++
					fmt.Fprintf(cmd.OutOrStdout(), "Table %d (%dx%d):\n%s",
						n, tv.RowCount, tv.ColCount, export.TableMarkdown(tv))
				}
			}
		}
		if n == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "no tables found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
