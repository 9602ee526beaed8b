package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indralab/network-search/internal/assembler"
	"github.com/indralab/network-search/internal/external"
	"github.com/indralab/network-search/internal/graphstore"
	netserver "github.com/indralab/network-search/internal/server"
	"github.com/indralab/network-search/internal/spec"
	"github.com/indralab/network-search/internal/util"
)

func newQueryCommand() *cobra.Command {
	var (
		source, target string
		signArg        string
		weighted       bool
		twoWay         bool
		kShortest      int

		nodeBlacklistCSV, allowedNSCSV, terminalNSCSV string
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a single search against a local graph snapshot and print the response as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := graphstore.LoadLocal(cfg.GraphStore.LocalPath)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			a := assembler.Assembler{Store: store, URLs: external.DBIdentifierURL{}}
			srv := netserver.New(a, int64(cfg.Server.WorkerPoolSize))

			in := spec.Input{
				Source:        source,
				Target:        target,
				Sign:          spec.Sign(signArg),
				Weighted:      weighted,
				TwoWay:        twoWay,
				NodeBlacklist: util.SplitCSV(nodeBlacklistCSV),
				AllowedNS:     util.SplitCSV(allowedNSCSV),
				TerminalNS:    util.SplitCSV(terminalNSCSV),
			}
			if kShortest > 0 {
				in.KShortest = &kShortest
			}

			resp, subgraph, err := srv.Handle(cmd.Context(), in,
				cfg.Defaults.DepthLimit, cfg.Defaults.KShortest, cfg.Defaults.UserTimeout)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if subgraph != nil {
				return enc.Encode(subgraph)
			}
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "source node name")
	cmd.Flags().StringVar(&target, "target", "", "target node name")
	cmd.Flags().StringVar(&signArg, "sign", "", `requested sign: "+" or "-"`)
	cmd.Flags().BoolVar(&weighted, "weighted", false, "rank/search using edge weights")
	cmd.Flags().BoolVar(&twoWay, "two-way", false, "also search in the reverse direction")
	cmd.Flags().IntVar(&kShortest, "k-shortest", 0, "override the k-shortest-paths cutoff (0 = use the configured default)")
	cmd.Flags().StringVar(&nodeBlacklistCSV, "node-blacklist", "", "comma-separated node names to exclude from every path")
	cmd.Flags().StringVar(&allowedNSCSV, "allowed-ns", "", "comma-separated namespaces an open search's intermediate nodes are restricted to")
	cmd.Flags().StringVar(&terminalNSCSV, "terminal-ns", "", "comma-separated namespaces forbidden as path endpoints")
	return cmd
}
