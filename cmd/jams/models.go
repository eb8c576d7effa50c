package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect and manage loaded models",
	}

	cmd.AddCommand(newModelsListCommand())
	cmd.AddCommand(newModelsAddCommand())
	cmd.AddCommand(newModelsUpdateCommand())
	cmd.AddCommand(newModelsDeleteCommand())

	return cmd
}

func newModelsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every model currently in the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := client().ListModels(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(models)
		},
	}
}

func newModelsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <model-name>",
		Short: "Fetch and load a new model by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().AddModel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", args[0])
			return nil
		},
	}
}

func newModelsUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <model-name>",
		Short: "Re-fetch and reload an existing model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().UpdateModel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
			return nil
		},
	}
}

func newModelsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model-name>",
		Short: "Remove a model from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().DeleteModel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
