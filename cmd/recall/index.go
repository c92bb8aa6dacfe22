package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/4thel00z/recall/internal"
	"github.com/spf13/cobra"
)

func NewIndexCmd(indexUC *internal.IndexUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <file|->",
		Short: "Index a document",
		Long:  `Split a document into chunks, embed them, and write the vector index. Use '-' to read from stdin.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeIndexRunner(indexUC),
	}

	cmd.Flags().String("source", "", "Source label (defaults to the file name)")
	cmd.Flags().Int("chunk-size", 0, "Chunk size in characters (0 uses the configured default)")
	cmd.Flags().Int("chunk-overlap", -1, "Chunk overlap in characters (negative uses the configured default)")
	cmd.Flags().String("model", "", "Embedding model override")
	return cmd
}

func makeIndexRunner(indexUC *internal.IndexUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		asJSON, _ := cmd.Flags().GetBool("json")
		source, _ := cmd.Flags().GetString("source")
		chunkSize, _ := cmd.Flags().GetInt("chunk-size")
		chunkOverlap, _ := cmd.Flags().GetInt("chunk-overlap")
		model, _ := cmd.Flags().GetString("model")

		text, defaultSource, err := readDocument(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		if source == "" {
			source = defaultSource
		}

		out, err := indexUC.Execute(cmd.Context(), internal.IndexInput{
			Text:         text,
			Source:       source,
			ChunkSize:    chunkSize,
			ChunkOverlap: chunkOverlap,
			Model:        model,
			Scope:        scopeHint,
		})
		if err != nil {
			return fmt.Errorf("index document: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"source":       out.Source,
				"chunks":       out.Chunks,
				"model":        out.Model,
				"chunkSize":    out.ChunkSize,
				"chunkOverlap": out.ChunkOverlap,
				"commit":       out.CommitHash,
			})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s: %d chunks (%s)\n", out.Source, out.Chunks, out.Model)
		if out.CommitHash != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Committed as %s\n", out.CommitHash[:7])
		}
		return nil
	}
}

func readDocument(stdin io.Reader, arg string) (text, source string, err error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", "", fmt.Errorf("read document: %w", err)
	}

	name := filepath.Base(arg)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return string(data), name, nil
}
