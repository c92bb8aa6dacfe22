package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recall",
		Short:         "Document retrieval with semantic search",
		Long:          `Index documents into a local vector store and answer questions from them.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	if a != nil {
		addSubcommands(rootCmd, a)
	}

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("scope", "", "Target scope (global|project)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func addSubcommands(root *cobra.Command, a *app) {
	root.AddCommand(
		NewInitCmd(),
		NewIndexCmd(a.indexUC),
		NewAskCmd(a.askUC),
		NewSearchCmd(a.searchUC),
		NewStatusCmd(a.statusUC),
		NewLogCmd(a.logUC),
		NewWatchCmd(a.indexUC),
		NewProviderCmd(a.provListUC, a.provAddUC, a.provRmUC, a.provDefUC, a.provTestUC),
	)
}
