package cmd

import (
	"fmt"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Manage recurring fixed expenses",
	RunE:  runExpenseList,
}

var expenseAddCmd = &cobra.Command{
	Use:     "add <name> <amount>",
	Short:   "Add a fixed expense",
	Example: "  walletmom expense add Rent 20000",
	Args:    cobra.ExactArgs(2),
	RunE:    runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fixed expenses",
	RunE:  runExpenseList,
}

func init() {
	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseListCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseAdd(_ *cobra.Command, args []string) error {
	amount, err := model.ParseAmount("expense amount", args[1])
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	if err := l.AddFixedExpense(args[0], amount); err != nil {
		return err
	}
	logger.Info("fixed expense added", zap.String("name", args[0]), zap.String("amount", amount.String()))

	p, err := l.Profile()
	if err != nil {
		return err
	}
	fmt.Printf("\n  Added %s at %s a month.\n", args[0], money(amount, p.Currency))
	return nil
}

func runExpenseList(_ *cobra.Command, _ []string) error {
	doc, err := readLedger().Document()
	if err != nil {
		return err
	}
	cur := currencyOf(doc.UserProfile.Currency)

	if len(doc.FixedExpenses) == 0 {
		fmt.Println("\n  No fixed expenses yet.")
		hint("Add one with `walletmom expense add Rent 20000`.")
		return nil
	}

	rows := make([][]string, 0, len(doc.FixedExpenses)+2)
	for _, e := range doc.FixedExpenses {
		rows = append(rows, []string{e.Name, cli.FormatMoney(e.Amount, cur)})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Total", cli.FormatMoney(pipeline.TotalFixed(doc.FixedExpenses), cur)},
	)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Fixed expenses",
		Headers: []string{"Name", "Monthly"},
		Rows:    rows,
	}))
	return nil
}
