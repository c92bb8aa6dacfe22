package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/recall/internal"
	"github.com/spf13/cobra"
)

func NewStatusCmd(statusUC *internal.StatusUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		Long:  `Show the current scope, store path, and index metadata.`,
		RunE:  makeStatusRunner(statusUC),
	}
}

func makeStatusRunner(statusUC *internal.StatusUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")

		out, err := statusUC.Execute(cmd.Context(), internal.StatusInput{Scope: scopeHint})
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"scope":        out.Scope,
				"storePath":    out.StorePath,
				"indexed":      out.Indexed,
				"source":       out.Source,
				"embedModel":   out.EmbedModel,
				"chunkSize":    out.ChunkSize,
				"chunkOverlap": out.ChunkOverlap,
				"count":        out.Count,
				"createdAt":    out.CreatedAt,
			})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Scope: %s (%s)\n", out.Scope, out.StorePath)
		if !out.Indexed {
			fmt.Fprintln(cmd.OutOrStdout(), "No index built yet.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Source:  %s\n", out.Source)
		fmt.Fprintf(cmd.OutOrStdout(), "Model:   %s\n", out.EmbedModel)
		fmt.Fprintf(cmd.OutOrStdout(), "Chunks:  %d (size %d, overlap %d)\n", out.Count, out.ChunkSize, out.ChunkOverlap)
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", out.CreatedAt.Format("Mon Jan 2 15:04:05 2006 -0700"))
		return nil
	}
}
