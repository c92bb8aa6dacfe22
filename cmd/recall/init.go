package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/4thel00z/recall/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new index store",
		Long:  `Initialize a new .recall directory with git-backed index storage.`,
		RunE:  runInit,
	}

	cmd.Flags().Bool("global", false, "Initialize global scope (~/.recall)")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	isGlobal, _ := cmd.Flags().GetBool("global")

	resolver := internal.NewScopeResolver()

	var scope internal.Scope
	if isGlobal {
		scope = resolver.Global()
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		scope = internal.Scope{
			Type:      internal.ScopeProject,
			Path:      cwd,
			StorePath: filepath.Join(cwd, ".recall"),
		}
	}

	if _, err := os.Stat(scope.StorePath); err == nil {
		return fmt.Errorf("already initialized at %s", scope.StorePath)
	}

	if err := internal.InitRepository(scope); err != nil {
		return fmt.Errorf("init repository: %w", err)
	}

	cfg := internal.DefaultConfig()
	if err := internal.SaveConfig(scope, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized index store at %s\n", scope.StorePath)
	return nil
}
