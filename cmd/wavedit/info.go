// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/wavedit/formats"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print format, channels, sample rate and duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			buf, err := formats.DecodeFile(formats.NewRegistry(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:        %s\n", filepath.Base(path))
			fmt.Fprintf(out, "Format:      %s\n", strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
			fmt.Fprintf(out, "Channels:    %d\n", buf.NumChannels())
			fmt.Fprintf(out, "Sample rate: %d Hz\n", buf.SampleRate())
			fmt.Fprintf(out, "Frames:      %d\n", buf.Frames())
			fmt.Fprintf(out, "Duration:    %.3f s\n", buf.Duration())
			return nil
		},
	}
}
