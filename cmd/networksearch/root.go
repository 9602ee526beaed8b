package main

import (
	"github.com/spf13/cobra"

	netsearchlog "github.com/indralab/network-search/internal/log"
)

var configPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "networksearch",
		Short:         "Path-finding query service over a biomedical causal-influence graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			netsearchlog.SetUpLogger()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (falls back to NETSEARCH_ env vars and built-in defaults)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newQueryCommand())
	root.AddCommand(newCompressSnapshotCommand())
	return root
}
