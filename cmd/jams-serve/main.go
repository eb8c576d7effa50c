package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/jams-project/jams/pkg/configutils"
	"github.com/jams-project/jams/pkg/jams/apiserver"
	"github.com/jams-project/jams/pkg/jamsconfig"
	"github.com/jams-project/jams/pkg/logging"
	"github.com/jams-project/jams/pkg/version"
)

var configFilePath string
var debug bool

var rootCmd = &cobra.Command{
	Use:     "jams-serve",
	Short:   "Run the J.A.M.S. model server",
	Long:    "jams-serve loads models from a pluggable backing store and serves predictions over HTTP or gRPC.",
	Version: fmt.Sprintf("gitVersion=%s, gitCommit=%s", version.GitVersion, version.GitCommit),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := fx.New(
		fx.Provide(provideViper),
		logging.Module,
		jamsconfig.Module,
		apiserver.Module,
	)
	app.Run()
	return nil
}

func provideViper() (*viper.Viper, error) {
	v := viper.GetViper()

	if configFilePath != "" {
		if err := configutils.ResolveAndMergeFile(v, configFilePath); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFilePath, err)
		}
	}

	if debug {
		v.Set("logging.debug", true)
	}

	return v, nil
}
