package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quotegen/internal/quote"
	"quotegen/internal/render"
)

func renderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <quote.json>",
		Short: "Render a quote file to a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, out, err := renderFile(cmd, args[0])
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = fmt.Sprintf("quote_%s.pdf", doc.Number)
			}
			if err := os.WriteFile(path, out.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %d pages)\n", path, out.Size, out.Pages)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default quote_<number>.pdf)")
	return cmd
}

// renderFile loads a quote document from disk, assigns a number when
// absent and renders it.
func renderFile(cmd *cobra.Command, path string) (*quote.Document, *render.RenderedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc quote.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Number == "" {
		doc.Number = gen.QuoteNumber()
	}

	out, err := renderer.Render(cmd.Context(), &doc)
	if err != nil {
		return nil, nil, err
	}
	return &doc, out, nil
}
