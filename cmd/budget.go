package cmd

import (
	"fmt"

	"github.com/theirongolddev/walletmom/internal/budget"
	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagStrategy   string
	flagBudgetSave bool
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Recommend how to split income after fixed costs",
	RunE:  runBudget,
}

func init() {
	budgetCmd.Flags().StringVarP(&flagStrategy, "strategy", "s", string(budget.StrategyNeedsFirst), "needs-first or 50-30-20")
	budgetCmd.Flags().BoolVar(&flagBudgetSave, "save", false, "Store the plan in the ledger for reference")
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	strategy, err := budget.ParseStrategy(flagStrategy)
	if err != nil {
		return err
	}

	doc, err := readLedger().Document()
	if err != nil {
		return err
	}
	cur := currencyOf(doc.UserProfile.Currency)
	income := doc.UserProfile.MonthlyIncome
	fixed := pipeline.TotalFixed(doc.FixedExpenses)

	plan, err := budget.Plan(strategy, income, fixed)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(plan.Strategy))
	fmt.Println()
	fmt.Println(cli.RenderKV("Monthly income", cli.FormatMoney(income, cur)))
	fmt.Println(cli.RenderKV("Fixed expenses", cli.FormatMoney(fixed, cur)))
	fmt.Println()

	if plan.IsDeficit() {
		fmt.Println(cli.RenderStatus(model.RiskDanger) + "  " +
			fmt.Sprintf("Fixed costs exceed your needs budget by %s.", cli.FormatMoney(plan.NeedsGap, cur)))
		hint("Nothing is left for wants or savings until that gap closes.")
	} else {
		total := plan.NeedsTotal.Add(plan.DiscretionaryTotal)
		fmt.Println(cli.RenderShareBar("Needs", plan.NeedsTotal, total, 30, cli.FormatMoney(plan.NeedsTotal, cur)))
		fmt.Println(cli.RenderShareBar("Wants", plan.RecommendedWants, total, 30, cli.FormatMoney(plan.RecommendedWants, cur)))
		fmt.Println(cli.RenderShareBar("Savings", plan.RecommendedSavings, total, 30, cli.FormatMoney(plan.RecommendedSavings, cur)))

		if doc.UserProfile.SavingsGoal.GreaterThan(plan.RecommendedSavings) {
			fmt.Println()
			hint("Your savings goal of %s is above what this plan sets aside.",
				cli.FormatMoney(doc.UserProfile.SavingsGoal, cur))
		}
	}

	if !flagBudgetSave {
		return nil
	}
	l, err := openLedger()
	if err != nil {
		return err
	}
	if err := l.SaveBudgetPlan(plan); err != nil {
		return err
	}
	logger.Info("budget plan saved", zap.String("strategy", plan.Strategy), zap.String("status", string(plan.Status)))
	fmt.Println()
	hint("Plan saved to %s", l.Path())
	return nil
}
