package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphgen/pkg/archive"
)

// historyCommand creates the history command, which lists archived runs.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs from the archive",
		Long: `History lists the most recent runs stored in the MongoDB archive.
The archive is configured with --archive or [archive].mongo_uri.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHistory(cmd.Context(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", archive.DefaultListLimit, "number of runs to list")

	return cmd
}

func (c *CLI) runHistory(ctx context.Context, limit int) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close(context.Background())

	runs, err := runner.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		printInfo("No archived runs")
		return nil
	}

	fmt.Println(historyTable(runs))
	printNewline()
	printNextStep("Inspect a run", fmt.Sprintf("%s show %s", appName, runs[0].ID))
	return nil
}
