package main

import (
	"github.com/spf13/cobra"

	"sentencescramble/internal/logging"
)

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		flush    func()
	)

	root := &cobra.Command{
		Use:           "scramble",
		Short:         "Sentence Scramble command-line tools",
		Long:          "Inspect how sentences are split and scrambled, encode and decode assignment links, and back up the database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			_, flush, err = logging.Setup(logLevel, false)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if flush != nil {
				flush()
			}
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(
		tokenizeCmd(),
		chunkCmd(),
		splitCmd(),
		shuffleCmd(),
		encodeCmd(),
		decodeCmd(),
		backupCmd(),
	)

	return root
}
