// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/wavedit/effects"
	"github.com/ik5/wavedit/playback"
	"github.com/ik5/wavedit/region"
)

// parseParams turns k=v pairs into effect parameters.
func parseParams(pairs []string) (effects.Params, error) {
	p := make(effects.Params, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q: want name=value", pair)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", pair, err)
		}
		p[k] = f
	}
	return p, nil
}

func (a *app) effectCmd() *cobra.Command {
	var (
		name   string
		params []string
		list   bool
		r      regionFlags
		out    outputFlags
	)

	cmd := &cobra.Command{
		Use:   "effect <file>",
		Short: "Apply an effect to a clip or to a region of it",
		Long: `Apply a named effect. Parameters are passed as --param name=value and
default per effect when omitted. With --start and --end only that region
is processed. Filters such as lowpass and tempo need ffmpeg.

Use --list to print the available effect names.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				return nil
			}
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if out.path == "" {
				return fmt.Errorf("--output is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if list {
				catalog := effects.DefaultCatalog(effects.ResolvePath(a.settings.Effects.FFmpegPath))
				for _, n := range catalog.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}

			p, err := parseParams(params)
			if err != nil {
				return err
			}

			s, err := a.open(ctx, args[0], playback.NewNull())
			if err != nil {
				return err
			}
			defer s.Close()

			regionOnly := r.end > r.start
			if regionOnly {
				if res := s.c.SelectRegion(r.start, r.end); res.Action != region.ActionCreated {
					return fmt.Errorf("empty region [%g, %g] in a %.3f s clip", r.start, r.end, s.c.Duration())
				}
			}
			if err := s.c.ApplyEffect(ctx, name, p, regionOnly); err != nil {
				return err
			}
			return a.write(cmd, out, s.c.Buffer())
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Effect name")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Effect parameter as name=value (repeatable)")
	cmd.Flags().BoolVar(&list, "list", false, "List effect names and exit")
	r.register(cmd)
	out.register(cmd, false)
	return cmd
}
