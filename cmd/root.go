package cmd

import (
	"os"

	"github.com/jsphweid/beattable/constants"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "beattable",
	Short: "Converts midi files to beat tables",
	Long: `Converts midi files into per-beat note tables for the LayerOne demo board.
Each track is reduced to one note per beat window by majority vote.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(constants.GetLogLevel())
	},
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
