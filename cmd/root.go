package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rajohns08/display-switch/internal/config"
	"github.com/rajohns08/display-switch/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath string

	rootCmd = &cobra.Command{
		Use:   "display-switch",
		Short: "Display-switch - DDC/CI input switching for USB KVMs",
		Long: `Display-switch turns a plain USB switch into a full KVM: when the
configured USB device (usually the keyboard behind the switch) appears or
disappears, every DDC/CI-capable monitor is told to change its video input
to match, over the same cable that carries the video signal.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
}

func initConfig(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		config.SetConfigPath(configPath)
	}
	if err := config.Init(); err != nil {
		return err
	}
	if level := config.Get().Logging.LogLevel; level != "" {
		logger.SetLevel(level)
	}
	return nil
}
