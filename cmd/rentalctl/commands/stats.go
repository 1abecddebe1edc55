package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
	"rental-backend/internal/timeutil"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard statistics for the current business day",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := services.NewDashboardService(repositories.NewProductRepository(pool), repositories.NewRentalRepository(pool))
		stats, err := svc.GetStats(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), stats)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Date\t%s\n", timeutil.FormatDisplay(timeutil.Now()))
		fmt.Fprintf(tw, "Products\t%d\n", stats.TotalProducts)
		fmt.Fprintf(tw, "Active rentals\t%d\n", stats.ActiveRentals)
		fmt.Fprintf(tw, "Overdue\t%d\n", stats.OverdueCount)
		fmt.Fprintf(tw, "Due today\t%d\n", len(stats.DueToday))
		fmt.Fprintf(tw, "Due tomorrow\t%d\n", len(stats.DueTomorrow))
		for _, r := range stats.DueToday {
			fmt.Fprintf(tw, "  today\t%s (%s) - %s\n", r.ClientName, r.ClientPhone, r.ProductName())
		}
		for _, r := range stats.DueTomorrow {
			fmt.Fprintf(tw, "  tomorrow\t%s (%s) - %s\n", r.ClientName, r.ClientPhone, r.ProductName())
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
