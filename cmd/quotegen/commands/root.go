// Package commands wires the quotegen CLI: render a quote to PDF,
// serve the HTTP API, or email a rendered quote.
package commands

import (
	"fmt"
	"os"

	"github.com/rickar/cal/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quotegen/internal/assets"
	"quotegen/internal/config"
	"quotegen/internal/ident"
	"quotegen/internal/render"
)

const version = "1.0.0"

var (
	configPath       string
	paginateRows     bool
	businessValidity bool

	cfg      *config.Config
	logger   *zap.Logger
	renderer *render.Renderer
	gen      *ident.Generator
)

func Execute() error {
	root := &cobra.Command{
		Use:          "quotegen",
		Short:        "Render quote documents to PDF",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			} else {
				cfg = config.Default()
			}

			logger, err = zap.NewProduction()
			if err != nil {
				return err
			}

			gen, err = ident.NewGenerator(cfg.NodeID)
			if err != nil {
				return err
			}

			opts := render.Options{PaginateRows: paginateRows}
			if businessValidity {
				opts.Calendar = cal.NewBusinessCalendar()
			}
			renderer = render.New(assets.NewDirStore(cfg.AssetDir), logger, opts)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	root.PersistentFlags().BoolVar(&paginateRows, "paginate-rows", false,
		"continue long item tables onto additional pages")
	root.PersistentFlags().BoolVar(&businessValidity, "business-day-validity", false,
		"roll the validity date forward to the next workday")

	root.AddCommand(renderCmd(), serveCmd(), sendCmd(), versionCmd())
	return root.Execute()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the quotegen version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "quotegen v%s\n", version)
		},
	}
}
