package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/purchase"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagAssessCategory string
	flagAssessConfirm  bool
	flagAssessDryRun   bool
)

var assessCmd = &cobra.Command{
	Use:     "assess <item> <cost>",
	Aliases: []string{"ask"},
	Short:   "Ask whether you can afford a purchase",
	Example: "  walletmom assess Headphones 2500\n" +
		"  walletmom assess \"Car repair\" 18000 --category unexpected --confirm",
	Args: cobra.ExactArgs(2),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVarP(&flagAssessCategory, "category", "c", string(model.CategoryWants), "Needs, Wants or Unexpected")
	assessCmd.Flags().BoolVarP(&flagAssessConfirm, "confirm", "y", false, "Log the purchase without asking")
	assessCmd.Flags().BoolVar(&flagAssessDryRun, "dry-run", false, "Only show the verdict, never log")
	assessCmd.MarkFlagsMutuallyExclusive("confirm", "dry-run")
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	cost, err := model.ParseAmount("cost", args[1])
	if err != nil {
		return err
	}
	cat, err := model.ParseCategory(flagAssessCategory)
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	j, closeJournal := openJournal()
	defer closeJournal()
	svc, _ := newPurchaseService(l, j)

	a, err := svc.Analyze(cmd.Context(), purchase.Request{Item: args[0], Cost: cost, Category: cat})
	if err != nil {
		return err
	}
	printAnalysis(a)

	if flagAssessDryRun {
		return nil
	}

	confirmed := flagAssessConfirm
	if !confirmed {
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Log %s for %s?", a.Request.Item, money(a.Request.Cost, a.Currency))).
			Affirmative("Yes, I bought it").
			Negative("No").
			Value(&confirmed).
			Run()
		if err != nil {
			if !errors.Is(err, huh.ErrUserAborted) {
				hint("Not logged. Re-run with --confirm to log without a prompt.")
			}
			return nil
		}
	}
	if !confirmed {
		hint("Not logged.")
		return nil
	}

	tx, err := svc.Confirm(a)
	if err != nil {
		return err
	}
	fmt.Printf("\n  Logged %s %s under %s.\n", tx.Description, money(tx.Amount, a.Currency), tx.Category)
	return nil
}

func printAnalysis(a *purchase.Analysis) {
	cur := currencyOf(a.Currency)
	as := a.Assessment

	fmt.Println()
	fmt.Println("  " + cli.RenderStatus(as.Status) + "  " + as.Reason)
	fmt.Println()
	fmt.Println(cli.RenderKV("Item", a.Request.Item))
	fmt.Println(cli.RenderKV("Cost", cli.FormatMoney(a.Request.Cost, cur)))
	fmt.Println(cli.RenderKV("Category", string(a.Request.Category)))
	fmt.Println(cli.RenderKV("Free cash now", cli.FormatMoney(a.Snapshot.FreeCashFlow, cur)))
	fmt.Println(cli.RenderKV("Left afterwards", cli.FormatMoney(as.RemainingBalance, cur)))
	fmt.Println(cli.RenderKV("Share of free cash", cli.FormatPercent(as.CostPercentage)))
	fmt.Println()
	fmt.Println("  " + a.Advice.Text)
	fmt.Println()

	via := a.Advice.Provider
	if a.Advice.FellBack {
		via += " (fallback)"
	}
	hint("via %s", via)
}
