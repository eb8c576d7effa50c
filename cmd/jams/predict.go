package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newPredictCommand() *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "predict <model-name>",
		Short: "Send a feature payload to a loaded model and print its prediction",
		Long:  "predict reads a JSON feature payload (from --input, or stdin when --input is omitted) and sends it to the named model, printing the raw prediction JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				payload []byte
				err     error
			)
			if inputFile != "" {
				payload, err = os.ReadFile(inputFile)
			} else {
				payload, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			output, err := client().Predict(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "path to a JSON feature file (defaults to stdin)")
	return cmd
}
