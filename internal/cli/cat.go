package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harun/tabfile/pkg/batch"
)

var catCmd = &cobra.Command{
	Use:   "cat FILE...",
	Short: "Print records from record files",
	Long: `Print the first two columns of every record in the given files,
tab-separated, one per line. Missing files are skipped, not fatal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	p := batch.NewDefaultProcessor()

	sum, err := p.Run(args, func(path, col1, col2 string) error {
		_, werr := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", col1, col2)
		return werr
	})
	if err != nil {
		return err
	}

	if sum.Missing > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d missing file(s)\n", sum.Missing)
	}

	return nil
}
