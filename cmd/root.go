package cmd

import (
	"fmt"
	"os"
	"strings"

	"lecture-manager/internal/config"
	"lecture-manager/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lecture-manager",
	Short: "Lecture session registration service",
	Long: `A lecture management service built with Go.
It provides:
- Capacity-checked registration of students into lecture sessions
- Session, full-session and student statistics
- CRUD for students, lectures and lecture sessions
- Load testing of concurrent registrations
Example usage:
  lecture-manager migrate up                   # Apply database migrations
  lecture-manager server --port 3000           # Start the API server
  lecture-manager loadtest --concurrent 200    # Race registrations for one session`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		if err := logger.InitWithConfig(level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
			logger.Init(verbose)
			logger.Warn("Failed to initialize logger with config, using fallback: %v", err)
		}
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lecture-manager.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lecture-manager")
	}

	// LECTURE_DATABASE_HOST overrides database.host
	viper.SetEnvPrefix("lecture")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	config.Init()
}
