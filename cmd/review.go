package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagReviewMonth string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Look back over a month of spending",
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&flagReviewMonth, "month", "m", "", "Month to review, e.g. 2024-05 (default this month)")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, _ []string) error {
	month, err := cli.ParseMonth(flagReviewMonth)
	if err != nil {
		return err
	}
	doc, err := readLedger().Document()
	if err != nil {
		return err
	}
	cur := currencyOf(doc.UserProfile.Currency)

	rev := pipeline.Review(doc.Transactions, month)

	fmt.Println()
	fmt.Println(cli.RenderTitle("REVIEW  " + cli.FormatMonth(rev.Month)))
	fmt.Println()
	fmt.Println("  " + pipeline.ReviewMessage(rev))
	if rev.Transactions == 0 {
		return nil
	}
	fmt.Println()

	fmt.Println(cli.RenderKV("Transactions", cli.FormatNumber(int64(rev.Transactions))))
	fmt.Println(cli.RenderKV("Spent", cli.FormatMoney(rev.Spent, cur)))
	fmt.Println(cli.RenderKV("Received", cli.FormatMoney(rev.Received, cur)))
	if rev.Largest != nil {
		fmt.Println(cli.RenderKV("Largest purchase",
			fmt.Sprintf("%s %s", rev.Largest.Description, cli.FormatMoney(rev.Largest.Amount, cur))))
	}
	fmt.Println()

	for _, c := range model.Categories {
		amt := rev.ByCategory[c]
		fmt.Println(cli.RenderShareBar(string(c), amt, rev.Spent, 30, cli.FormatMoney(amt, cur)))
	}

	end := rev.Month.AddDate(0, 1, 0).Add(-time.Nanosecond)
	if now := time.Now(); end.After(now) {
		end = now
	}
	days := pipeline.DailySpend(doc.Transactions, rev.Month, end)
	values := make([]float64, len(days))
	for i, ds := range days {
		// days arrive newest first; the sparkline reads left to right
		values[len(days)-1-i] = ds.Spent.InexactFloat64()
	}
	fmt.Println()
	fmt.Println(cli.RenderKV("Daily spending", cli.RenderSparkline(values)))
	return nil
}
