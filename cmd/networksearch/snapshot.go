package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indralab/network-search/internal/util"
)

// newCompressSnapshotCommand gzip+base64-encodes a snapshot JSON file into
// the ".gz" blob format graphstore.LoadLocal inflates at load time, so a
// build pipeline's plain-JSON snapshot can be shipped as a smaller file
// without changing the on-disk schema.
func newCompressSnapshotCommand() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "compress-snapshot",
		Short: "Gzip+base64-encode a snapshot JSON file for graphstore.LoadLocal",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("compress-snapshot: read %s: %w", in, err)
			}
			blob, err := util.ZipAndEncode(raw)
			if err != nil {
				return fmt.Errorf("compress-snapshot: encode: %w", err)
			}
			if err := os.WriteFile(out, []byte(blob), 0o644); err != nil {
				return fmt.Errorf("compress-snapshot: write %s: %w", out, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "plain snapshot JSON file to compress")
	cmd.Flags().StringVar(&out, "out", "", "destination .gz blob path")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}
