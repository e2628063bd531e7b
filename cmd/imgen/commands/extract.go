package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/maltedev/product-image-generator/internal/app"
	"github.com/maltedev/product-image-generator/internal/models"
	"github.com/maltedev/product-image-generator/internal/pricing"
)

var extractJSON *bool

func init() {
	extractJSON = extractCmd.Flags().Bool("json", false, "Print the record as JSON.")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <url> [--json]",
	Short: "Extracts the product record from a shop page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			record, err := a.Generator.ExtractDebug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if *extractJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(record)
			}
			renderRecord(cmd.OutOrStdout(), record)
			return nil
		})
	},
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func renderRecord(w io.Writer, record *models.ProductRecord) {
	summary := newTable(w)
	summary.AppendRows([]table.Row{
		{"Name", record.Name},
		{"Price", pricing.Format(record.Price)},
		{"Image", valueOr(record.ImageURL, "(none)")},
		{"Source", record.SourceURL},
	})
	summary.Render()

	matrix := record.SizeColorMatrix
	if matrix.IsEmpty() {
		fmt.Fprintln(w, "no size/color table")
		return
	}

	availability := newTable(w)
	header := table.Row{"Color"}
	for _, size := range matrix.Sizes {
		header = append(header, size)
	}
	availability.AppendHeader(header)

	for _, color := range matrix.Colors {
		row := table.Row{color}
		for _, size := range matrix.Sizes {
			mark := "✗"
			if matrix.Available(color, size) {
				mark = "✓"
			}
			row = append(row, mark)
		}
		availability.AppendRow(row)
	}
	availability.Render()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
