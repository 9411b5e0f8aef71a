// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/export"
	"github.com/ik5/wavedit/playback"
	"github.com/ik5/wavedit/region"
)

// regionFlags are the --start/--end pair shared by edit and effect.
type regionFlags struct {
	start, end float64
}

func (r *regionFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&r.start, "start", 0, "Region start in seconds")
	cmd.Flags().Float64Var(&r.end, "end", 0, "Region end in seconds")
}

// outputFlags are the destination flags shared by edit and effect.
type outputFlags struct {
	path     string
	bitDepth int
	upload   bool
}

func (o *outputFlags) register(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVarP(&o.path, "output", "o", "", "Output WAV file")
	cmd.Flags().IntVar(&o.bitDepth, "bit-depth", 0, "Output bit depth: 8, 16, 24 or 32 (default from config)")
	cmd.Flags().BoolVar(&o.upload, "upload", false, "Also upload the result to the configured S3 bucket")
	if required {
		_ = cmd.MarkFlagRequired("output")
	}
}

// write exports buf to the output file and, when asked, to S3.
func (a *app) write(cmd *cobra.Command, o outputFlags, buf *audio.Buffer) error {
	ctx := cmd.Context()
	depth := o.bitDepth
	if depth == 0 {
		depth = a.settings.Export.BitDepth
	}

	name := filepath.Base(o.path)
	loc, err := export.Export(ctx, export.FileSink{Dir: filepath.Dir(o.path)}, name, buf, depth)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%.3f s)\n", loc, buf.Duration())

	if !o.upload {
		return nil
	}
	sink, err := export.NewS3Sink(a.settings.Export.S3, a.logger)
	if err != nil {
		return err
	}
	loc, err = export.Export(ctx, sink, name, buf, depth)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s\n", loc)
	return nil
}

func (a *app) editCmd() *cobra.Command {
	var (
		keep, cut bool
		r         regionFlags
		out       outputFlags
	)

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Cut a region out of a clip, or keep only that region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx, args[0], playback.NewNull())
			if err != nil {
				return err
			}
			defer s.Close()

			if res := s.c.SelectRegion(r.start, r.end); res.Action != region.ActionCreated {
				return fmt.Errorf("empty region [%g, %g] in a %.3f s clip", r.start, r.end, s.c.Duration())
			}

			apply := s.c.Cut
			if keep {
				apply = s.c.Keep
			}
			if err := apply(ctx); err != nil {
				return err
			}
			return a.write(cmd, out, s.c.Buffer())
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "Keep only the region")
	cmd.Flags().BoolVar(&cut, "cut", false, "Remove the region")
	cmd.MarkFlagsMutuallyExclusive("keep", "cut")
	cmd.MarkFlagsOneRequired("keep", "cut")
	r.register(cmd)
	_ = cmd.MarkFlagRequired("end")
	out.register(cmd, true)
	return cmd
}
