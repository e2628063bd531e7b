package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maltedev/product-image-generator/internal/app"
)

var (
	generateFormula *string
	generateOut     *string
)

func init() {
	generateFormula = generateCmd.Flags().String("formula", "", "Price formula in terms of x, the page price. Defaults to RENDER_DEFAULT_FORMULA.")
	generateOut = generateCmd.Flags().String("out", "", "Output file. Defaults to a name derived from the product.")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <url> [--formula <expr>] [--out <file.jpg>]",
	Short: "Renders the product image for a shop page and writes it as JPEG.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			generated, err := a.Generator.GenerateImage(cmd.Context(), args[0], *generateFormula)
			if err != nil {
				return err
			}

			out := *generateOut
			if out == "" {
				out = generated.Filename
			}
			if err := os.WriteFile(out, generated.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, formula %q)\n", out, len(generated.Data), generated.Formula)
			return nil
		})
	},
}
