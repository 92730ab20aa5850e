package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagTxCategory string
	flagTxKind     string
	flagTxLast     int
	flagTxMonth    string
)

var txCmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transactions"},
	Short:   "Log and list transactions",
	RunE:    runTxList,
}

var txLogCmd = &cobra.Command{
	Use:   "log <description> <amount>",
	Short: "Log a transaction without asking first",
	Example: "  walletmom tx log Groceries 1200 --category needs\n" +
		"  walletmom tx log Bonus 8000 --kind income",
	Args: cobra.ExactArgs(2),
	RunE: runTxLog,
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE:  runTxList,
}

func init() {
	txLogCmd.Flags().StringVarP(&flagTxCategory, "category", "c", string(model.CategoryWants), "Needs, Wants or Unexpected")
	txLogCmd.Flags().StringVarP(&flagTxKind, "kind", "k", string(model.KindExpense), "expense or income")

	txListCmd.Flags().IntVarP(&flagTxLast, "last", "n", 20, "Show at most N transactions (0 for all)")
	txListCmd.Flags().StringVarP(&flagTxMonth, "month", "m", "", "Only this month, e.g. 2024-05")

	txCmd.AddCommand(txLogCmd)
	txCmd.AddCommand(txListCmd)
	rootCmd.AddCommand(txCmd)
}

func runTxLog(_ *cobra.Command, args []string) error {
	amount, err := model.ParseAmount("amount", args[1])
	if err != nil {
		return err
	}
	cat, err := model.ParseCategory(flagTxCategory)
	if err != nil {
		return err
	}
	kind, err := model.ParseKind(flagTxKind)
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	tx := model.Transaction{
		Timestamp:   time.Now(),
		Description: strings.TrimSpace(args[0]),
		Amount:      amount,
		Category:    cat,
		Kind:        kind,
	}
	if err := l.LogTransaction(tx); err != nil {
		return err
	}
	logger.Info("transaction logged",
		zap.String("description", tx.Description),
		zap.String("amount", amount.String()),
		zap.String("kind", string(kind)),
	)

	p, err := l.Profile()
	if err != nil {
		return err
	}
	fmt.Printf("\n  Logged %s %s (%s, %s).\n", tx.Description, money(amount, p.Currency), cat, kind)
	return nil
}

func runTxList(_ *cobra.Command, _ []string) error {
	doc, err := readLedger().Document()
	if err != nil {
		return err
	}
	cur := currencyOf(doc.UserProfile.Currency)

	txs := doc.Transactions
	title := "Transactions"
	if flagTxMonth != "" {
		month, err := cli.ParseMonth(flagTxMonth)
		if err != nil {
			return err
		}
		txs = pipeline.FilterByMonth(txs, month)
		title = "Transactions in " + cli.FormatMonth(month)
	}

	txs = newestFirst(txs, flagTxLast)

	if len(txs) == 0 {
		fmt.Println("\n  No transactions found.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(transactionTable(title, txs, cur)))
	return nil
}

// newestFirst reverses the log, keeping at most n entries when n > 0.
// Income is included, unlike pipeline.Recent.
func newestFirst(txs []model.Transaction, n int) []model.Transaction {
	if n <= 0 || n > len(txs) {
		n = len(txs)
	}
	out := make([]model.Transaction, 0, n)
	for i := len(txs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, txs[i])
	}
	return out
}

// transactionTable lays out txs in the order given. Income rows carry
// a leading "+".
func transactionTable(title string, txs []model.Transaction, currency string) cli.Table {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		amount := cli.FormatMoney(tx.Amount, currency)
		if !tx.IsExpense() {
			amount = "+" + amount
		}
		rows = append(rows, []string{
			cli.FormatDate(tx.Timestamp),
			cli.Truncate(tx.Description, 28),
			string(tx.Category),
			amount,
		})
	}
	return cli.Table{
		Title:   title,
		Headers: []string{"When", "Description", "Category", "Amount"},
		Rows:    rows,
	}
}
