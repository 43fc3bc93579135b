package cmd

import (
	"mockview_backend/internal/app"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("eager-load") {
			cfg.Questions.EagerLoad, _ = cmd.Flags().GetBool("eager-load")
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Server.Port = port
		}

		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		return application.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("eager-load", false, "load every question topic at startup")
	serveCmd.Flags().StringP("port", "p", "", "listen port (overrides server.port)")
}
