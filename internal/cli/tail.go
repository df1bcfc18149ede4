package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harun/tabfile/pkg/tabfile"
)

var tailCmd = &cobra.Command{
	Use:   "tail FILE",
	Short: "Follow a record file and print appended records",
	Long: `Print existing records of FILE, then keep watching it and print
records as they are appended, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runTail,
}

func init() {
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	w, err := tabfile.NewWatcher(args[0], log.Logger, func(col1, col2 string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", col1, col2)
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	return nil
}
