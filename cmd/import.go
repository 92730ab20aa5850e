package cmd

import (
	"fmt"

	"github.com/theirongolddev/walletmom/internal/model"
	"github.com/theirongolddev/walletmom/internal/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagImportCategory string
	flagImportDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>",
	Short: "Import transactions from JSONL or CSV exports",
	Long: "Reads .jsonl/.ndjson files (one transaction object per line) or .csv files\n" +
		"with date, description and amount columns. Entries already in the ledger\n" +
		"are skipped, so re-importing the same file is safe.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&flagImportCategory, "category", "c", string(model.CategoryWants), "Category for rows without one")
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Parse and report without writing")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cat, err := model.ParseCategory(flagImportCategory)
	if err != nil {
		return err
	}
	files, err := source.ScanPath(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("\n  No .jsonl or .csv files found in %s\n", args[0])
		return nil
	}

	var (
		txs     []model.Transaction
		skipped int
	)
	for _, f := range files {
		res := source.ParseFile(f, source.Options{DefaultCategory: cat})
		if res.Err != nil {
			return fmt.Errorf("%s: %w", f.Path, res.Err)
		}
		if res.ParseErrors > 0 {
			skipped += res.ParseErrors
			logger.Warn("rows skipped during import",
				zap.String("file", f.Path),
				zap.Int("count", res.ParseErrors),
				zap.String("first", res.FirstError),
			)
			hint("%s: skipped %d rows (%s)", f.Path, res.ParseErrors, res.FirstError)
		}
		txs = append(txs, res.Transactions...)
	}

	if flagImportDryRun {
		fmt.Printf("\n  Would import up to %d transactions from %d files (%d rows rejected).\n",
			len(txs), len(files), skipped)
		return nil
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	added, err := l.ImportTransactions(txs)
	if err != nil {
		return err
	}
	logger.Info("import finished",
		zap.Int("files", len(files)),
		zap.Int("parsed", len(txs)),
		zap.Int("added", added),
		zap.Int("rejected", skipped),
	)
	fmt.Printf("\n  Imported %d new transactions (%d already present, %d rows rejected).\n",
		added, len(txs)-added, skipped)
	return nil
}
