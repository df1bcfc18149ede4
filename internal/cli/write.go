package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harun/tabfile/pkg/tabfile"
)

var writeFromStdin bool

var writeCmd = &cobra.Command{
	Use:   "write FILE [COL...]",
	Short: "Write records to a record file",
	Long: `Write one record built from the COL arguments to FILE, replacing
any existing contents. With --stdin, each input line is split on tabs and
written as one record instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().BoolVar(&writeFromStdin, "stdin", false, "read records from stdin, one tab-separated line each")
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	s := tabfile.New()
	if err := s.Open(args[0], tabfile.ModeWrite); err != nil {
		return err
	}
	defer s.Close()

	if writeFromStdin {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			s.Write(strings.Split(scanner.Text(), "\t")...)
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		return s.Close()
	}

	s.Write(args[1:]...)
	return s.Close()
}
