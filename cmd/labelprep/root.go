package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/labelprep/pkg/labelprep/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type globalFlags struct {
	configPath string
	envFile    string
	logFile    string
}

// loadConfig reads the .env file (if any) and then the YAML configuration.
func (g *globalFlags) loadConfig() (config.Config, error) {
	path := strings.TrimSpace(g.envFile)
	required := path != ""
	if !required {
		path = ".env"
	}
	if err := config.LoadEnvFile(path, required); err != nil {
		return config.Config{}, err
	}
	return config.Load(strings.TrimSpace(g.configPath))
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "labelprep",
		Short:         "Export normalized drug-label indication text to CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "Load database credentials from a .env file (default: ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write JSON logs to this file instead of stderr")

	rootCmd.AddCommand(newRunCommand(flags))
	rootCmd.AddCommand(newNormalizeCommand(flags))
	rootCmd.AddCommand(newStopwordsCommand(flags))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the labelprep version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("labelprep " + version + "\n"))
			return err
		},
	}
}
