package cmd

import (
	"fmt"

	"github.com/theirongolddev/walletmom/internal/cli"
	"github.com/theirongolddev/walletmom/internal/config"
	"github.com/theirongolddev/walletmom/internal/model"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past purchase decisions",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Show at most N decisions")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	j, closeJournal := openJournal()
	defer closeJournal()
	if j == nil {
		return fmt.Errorf("decision journal unavailable, see the log at %s", config.LogPath(cfg))
	}

	decisions, err := j.Recent(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(decisions) == 0 {
		fmt.Println("\n  No purchases assessed yet.")
		hint("Try `walletmom assess Headphones 2500`.")
		return nil
	}

	cur := currencyOf("")
	if p, err := readLedger().Profile(); err == nil {
		cur = currencyOf(p.Currency)
	}

	rows := make([][]string, 0, len(decisions))
	for _, d := range decisions {
		logged := "no"
		if d.Confirmed {
			logged = "yes"
		}
		rows = append(rows, []string{
			cli.FormatDate(d.At),
			cli.Truncate(d.Item, 24),
			cli.FormatMoney(d.Cost, cur),
			string(d.Status),
			cli.FormatPercent(d.CostPercentage),
			logged,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Decisions (last %d)", len(decisions)),
		Headers: []string{"When", "Item", "Cost", "Verdict", "Share", "Logged"},
		Rows:    rows,
	}))

	if counts, err := j.Counts(); err == nil {
		fmt.Println()
		hint("All time: %d safe, %d caution, %d danger",
			counts[model.RiskSafe], counts[model.RiskCaution], counts[model.RiskDanger])
	}
	return nil
}
