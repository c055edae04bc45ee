package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/beattable/constants"
	"github.com/spf13/cobra"
)

var timelineSampleRate int

func init() {
	timelineCmd.Flags().IntVarP(&timelineSampleRate, "sample-rate", "s", constants.DefaultSampleRate,
		"what fraction of the resolution to sample")
	rootCmd.AddCommand(timelineCmd)
}

var timelineCmd = &cobra.Command{
	Use:   "timeline MIDI_FILE",
	Short: "Prints per-tick timelines",
	Long:  `Prints the dense per-tick timeline of every non-empty track before downsampling.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := Convert(args[0], timelineSampleRate)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, tl := range h.Timelines() {
			fmt.Fprintf(out, "track %v: %v ticks\n", i+1, len(tl.Notes))
			fmt.Fprintf(out, "notes: %v\n", strings.Join(tl.Notes, ","))
			fmt.Fprintf(out, "velocities: %v\n", tl.Velocities)
		}
		return nil
	},
}
