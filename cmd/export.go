package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole ledger as JSON or YAML",
	Example: "  walletmom export > backup.json\n" +
		"  walletmom export --format yaml --out ledger.yaml",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "json or yaml")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	doc, err := readLedger().Document()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	switch strings.ToLower(flagExportFormat) {
	case "json":
		data = append(data, '\n')
	case "yaml", "yml":
		if data, err = jsonToYAML(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", flagExportFormat)
	}

	if flagExportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flagExportOut, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", flagExportOut, err)
	}
	logger.Info("ledger exported", zap.String("format", flagExportFormat), zap.String("out", flagExportOut))
	fmt.Fprintf(os.Stderr, "  Exported %d transactions to %s\n", len(doc.Transactions), flagExportOut)
	return nil
}

// jsonToYAML re-encodes a JSON document as block-style YAML. Going
// through the JSON form keeps amounts as plain numbers.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("converting to yaml: %w", err)
	}
	clearStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
