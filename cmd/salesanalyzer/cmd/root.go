package cmd

import (
	"fmt"
	"os"

	"golang-sales-analytics-service/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "salesanalyzer",
	Short: "Sales transaction analysis tool",
	Long: `Salesanalyzer is a command-line tool for analyzing pipe-delimited sales
transaction files. It validates and filters the data, computes revenue and
trend analytics, enriches each transaction with product catalog metadata,
and writes an enriched dataset plus a formatted text report.

Examples:
  salesanalyzer analyze --input-file sales_data.txt
  salesanalyzer analyze --input-file sales_data.txt --region North --min-amount 100
  salesanalyzer analyze --input-file sales_data.txt --interactive
  salesanalyzer version`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}

		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}

	// Read environment variables that match
	viper.SetEnvPrefix("SALESANALYZER")
	viper.AutomaticEnv()

	configureLogging()
}

// configureLogging installs the global logger based on the verbose flag
func configureLogging() {
	config := logger.DefaultConfig()
	if viper.GetBool("verbose") {
		config = logger.DebugConfig()
	}

	log, err := logger.NewLogger(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %s\n", err)
		os.Exit(1)
	}
	logger.SetGlobalLogger(log)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
