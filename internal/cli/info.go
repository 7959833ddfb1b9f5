package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openhwp/hwpview/unit"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print document structure and page geometry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sections: %d\n", len(doc.Sections))
		if hdr := doc.Header(); hdr != nil {
			fmt.Fprintf(out, "char shapes: %d, para shapes: %d, styles: %d, fonts: %d\n",
				len(hdr.CharShapes), len(hdr.ParaShapes), len(hdr.Styles), len(hdr.Fontfaces))
		}
		for i, sec := range doc.Sections {
			paras, tables, images := 0, 0, 0
			for _, p := range sec.Paragraphs {
				paras++
				tables += len(p.Tables)
				images += len(p.Pictures)
			}
			orient := "portrait"
			if sec.Props.Landscape {
				orient = "landscape"
			}
			fmt.Fprintf(out, "section %d: %.0fx%.0fmm %s, %d paragraphs, %d tables, %d images\n",
				i, unit.ToMillimeters(sec.Props.PageWidth), unit.ToMillimeters(sec.Props.PageHeight),
				orient, paras, tables, images)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
