package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/4thel00z/recall/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd(indexUC *internal.IndexUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Watch a document and re-index on change",
		Long:  `Watch a document file and rebuild the index whenever it changes.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeWatchRunner(indexUC),
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching changes")
	cmd.Flags().String("source", "", "Source label (defaults to the file name)")
	cmd.Flags().Int("chunk-size", 0, "Chunk size in characters (0 uses the configured default)")
	cmd.Flags().Int("chunk-overlap", -1, "Chunk overlap in characters (negative uses the configured default)")
	return cmd
}

func makeWatchRunner(indexUC *internal.IndexUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		debounce, _ := cmd.Flags().GetDuration("debounce")
		source, _ := cmd.Flags().GetString("source")
		chunkSize, _ := cmd.Flags().GetInt("chunk-size")
		chunkOverlap, _ := cmd.Flags().GetInt("chunk-overlap")

		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("stat document: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the directory: editors often replace the file on save,
		// which drops a watch placed on the file itself.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("add watch dir: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", path)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		reindex := func() {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "read document: %v\n", err)
				return
			}

			src := source
			if src == "" {
				name := filepath.Base(path)
				src = name[:len(name)-len(filepath.Ext(name))]
			}

			out, err := indexUC.Execute(cmd.Context(), internal.IndexInput{
				Text:         string(data),
				Source:       src,
				ChunkSize:    chunkSize,
				ChunkOverlap: chunkOverlap,
				Scope:        scopeHint,
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "index document: %v\n", err)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Re-indexed %s: %d chunks\n", out.Source, out.Chunks)
		}

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event, path) {
					continue
				}
				if !pending {
					timer.Reset(debounce)
					pending = true
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				pending = false
				reindex()
			}
		}
	}
}

func shouldIgnoreEvent(event fsnotify.Event, path string) bool {
	if event.Name != path {
		return true
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return true
	}

	return false
}
