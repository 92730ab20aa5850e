package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/walletmom/internal/budget"
	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, fixed costs, spending and free cash at a glance",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	doc, err := readLedger().Document()
	if err != nil {
		return err
	}
	cur := currencyOf(doc.UserProfile.Currency)

	if doc.UserProfile.MonthlyIncome.IsZero() && len(doc.FixedExpenses) == 0 && len(doc.Transactions) == 0 {
		fmt.Println("\n  Your ledger is empty.")
		fmt.Println("  Run `walletmom setup` or `walletmom profile set --income 50000` to get started.")
		return nil
	}

	snap := pipeline.BuildSnapshot(doc.UserProfile, doc.FixedExpenses, doc.Transactions)
	plan, err := budget.Allocate(snap.Income, snap.TotalFixedExpenses)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("WALLET MOM  " + cli.FormatMonth(time.Now())))
	fmt.Println()

	rows := [][]string{
		{"Monthly Income", cli.FormatMoney(snap.Income, cur)},
		{"Fixed Expenses", cli.FormatMoney(snap.TotalFixedExpenses, cur)},
		{"Spent (logged)", cli.FormatMoney(snap.VariableExpenses, cur)},
		{"---"},
		{"Free Cash Flow", cli.FormatMoney(snap.FreeCashFlow, cur)},
		{"Savings Goal", cli.FormatMoney(snap.SavingsGoal, cur)},
		{"---"},
	}
	if plan.IsDeficit() {
		rows = append(rows, []string{"Needs Gap", cli.FormatMoney(plan.NeedsGap, cur)})
	} else {
		rows = append(rows,
			[]string{"Save (40%)", cli.FormatMoney(plan.RecommendedSavings, cur)},
			[]string{"Wants (60%)", cli.FormatMoney(plan.RecommendedWants, cur)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	recent := pipeline.Recent(doc.Transactions, cfg.General.RecentCount)
	if len(recent) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(transactionTable(
			fmt.Sprintf("Recent purchases (last %d)", cfg.General.RecentCount), recent, cur)))
	}

	fmt.Println()
	hint("%s", pipeline.ReviewMessage(pipeline.Review(doc.Transactions, time.Now())))
	return nil
}
