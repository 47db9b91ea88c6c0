package commands

import (
	"github.com/spf13/cobra"

	"quotegen/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the quote rendering API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.New(cfg, renderer, gen, logger).Run()
		},
	}
}
