package cmd

import (
	"mockview_backend/internal/config"

	"github.com/spf13/cobra"
)

const appName = "mockview"

var (
	// 配置目录，目录下的 config.yaml 可选
	cfgDir string

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "MockView is a mock interview backend: question bank, answer scoring and PDF reports",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "configs", "directory containing config.yaml")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(cfgDir)
}
