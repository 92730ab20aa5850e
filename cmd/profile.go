package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagIncome   string
	flagGoal     string
	flagCurrency string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update income, savings goal and currency",
	RunE:  runProfileShow,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update monthly income, savings goal or currency",
	Example: "  walletmom profile set --income 50000 --goal 5000\n" +
		"  walletmom profile set --currency $",
	RunE: runProfileSet,
}

func init() {
	profileSetCmd.Flags().StringVar(&flagIncome, "income", "", "Monthly income")
	profileSetCmd.Flags().StringVar(&flagGoal, "goal", "", "Monthly savings goal")
	profileSetCmd.Flags().StringVar(&flagCurrency, "currency", "", "Currency symbol, e.g. ₹ or $")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(_ *cobra.Command, _ []string) error {
	p, err := readLedger().Profile()
	if err != nil {
		return err
	}
	cur := currencyOf(p.Currency)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Profile", "Value"},
		Rows: [][]string{
			{"Monthly Income", cli.FormatMoney(p.MonthlyIncome, cur)},
			{"Savings Goal", cli.FormatMoney(p.SavingsGoal, cur)},
			{"Currency", cur},
		},
	}))
	return nil
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("income") && !cmd.Flags().Changed("goal") && !cmd.Flags().Changed("currency") {
		return errors.New("nothing to update: pass --income, --goal or --currency")
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	current, err := l.Profile()
	if err != nil {
		return err
	}

	income, goal := current.MonthlyIncome, current.SavingsGoal
	if flagIncome != "" {
		if income, err = model.ParseAmount("income", flagIncome); err != nil {
			return err
		}
	}
	if flagGoal != "" {
		if goal, err = model.ParseAmount("savings goal", flagGoal); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("income") || cmd.Flags().Changed("goal") {
		if err := l.UpdateProfile(income, goal); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("currency") {
		if err := l.SetCurrency(flagCurrency); err != nil {
			return err
		}
	}

	logger.Info("profile updated")
	return runProfileShow(cmd, nil)
}
