// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ik5/wavedit/formats"
	"github.com/ik5/wavedit/peaks"
)

func (a *app) peaksCmd() *cobra.Command {
	var (
		width     int
		spp       float64
		normalize bool
	)

	cmd := &cobra.Command{
		Use:   "peaks <file>",
		Short: "Print per-pixel min/max peaks as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := formats.DecodeFile(formats.NewRegistry(), args[0])
			if err != nil {
				return err
			}
			if spp <= 0 {
				spp = peaks.SamplesPerPixel(buf.Frames(), width)
			}
			set := peaks.Compute(buf, spp, width)
			if normalize {
				set = peaks.Normalize(set, 1)
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(set)
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 800, "Number of pixel columns")
	cmd.Flags().Float64Var(&spp, "spp", 0, "Samples per pixel (default: fit the clip into --width)")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Scale peaks so the loudest reaches 1")
	return cmd
}
