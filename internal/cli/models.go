// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/geoinv/config"
)

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Browse stored inversion results",
		Long: `List, show and delete results saved with --store.

Examples:
  geoinv models list --store sqlite:models.db
  geoinv models show 0b6c9c1e-3f7a-4c55-9d0e-8f1c2a7b6e40
  geoinv models delete 0b6c9c1e-3f7a-4c55-9d0e-8f1c2a7b6e40`,
	}

	var jsonOut bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List stored results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.requireStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sums, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(sums)
			}
			if len(sums) == 0 {
				fmt.Fprintln(out, "No models found.")
				return nil
			}
			fmt.Fprintln(out, summaryTable(sums))

			return nil
		},
	}
	list.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("model id: %w", err)
			}
			s, err := a.requireStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}
			renderResult(out, rec.Name+"  "+defaultTheme.hintStyle().Render(rec.ID.String()), &rec.Result)

			return nil
		},
	}
	show.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("model id: %w", err)
			}
			s, err := a.requireStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)

			return nil
		},
	}

	cmd.AddCommand(list, show, del)

	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Write(cmd.OutOrStdout(), a.cfg)
		},
	}
}
