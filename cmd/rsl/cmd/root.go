package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	rglog "github.com/msto63/robogame/foundation/core/log"
	"github.com/msto63/robogame/pkg/core/config"
	"github.com/msto63/robogame/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
	appLogger *rglog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rsl",
	Short: "RoboGame Scripting Language - robot scripts in a grid arena",
	Long: `rsl checks, inspects and runs robot scripts written in the
RoboGame Scripting Language.

Scripts drive a robot through a grid arena with walls and fuel barrels.
Two scripts can fight a match, watched in the terminal or over a
websocket, and every run can be recorded to a local history.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/rsl.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads the configuration and creates the logger
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	logCfg := logging.DefaultLoggerConfig("rsl")
	logCfg.Level = appConfig.General.LogLevel
	logCfg.Format = appConfig.General.LogFormat
	logCfg.Output = os.Stderr
	if verbose {
		logCfg.Level = "debug"
	}

	appLogger, err = logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	rglog.SetDefault(appLogger)
	return nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
