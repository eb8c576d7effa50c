package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jams-project/jams/pkg/jams/jamsclient"
	"github.com/jams-project/jams/pkg/version"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:     "jams",
	Short:   "Administer a running jams-serve instance",
	Long:    "jams is a command-line client for a running jams-serve instance's HTTP API: list, add, update, and delete models, and send ad-hoc predictions.",
	Version: fmt.Sprintf("gitVersion=%s, gitCommit=%s", version.GitVersion, version.GitCommit),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "jams-serve base URL")

	rootCmd.AddCommand(newModelsCommand())
	rootCmd.AddCommand(newPredictCommand())
}

func client() *jamsclient.Client {
	return jamsclient.New(serverURL)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
