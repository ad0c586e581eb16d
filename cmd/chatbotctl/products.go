package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thrive-wellness/chatbot-engine/internal/catalog"
)

// newProductsCmd lists the live product catalog.
func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List available products from the live catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON)

			client, err := catalog.NewClient(catalog.Config{
				URL:     cfg.Catalog.URL,
				APIKey:  cfg.Catalog.APIKey,
				Timeout: cfg.Catalog.Timeout,
			})
			if err != nil {
				ui.Error("Catalog not configured: %v", err)
				return err
			}

			spin := ui.NewSpinner("Fetching catalog...")
			if spin != nil {
				spin.Start()
			}

			records, err := client.FetchAvailable(cmd.Context())

			if spin != nil {
				spin.Stop()
			}

			if err != nil {
				ui.Error("Catalog fetch failed: %v", err)
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"count":    len(records),
					"products": records,
				})
			}

			ui.Success("%d products available", len(records))
			for _, rec := range records {
				line := fmt.Sprintf("  %s", rec.Name)
				if rec.Color != "" {
					line += fmt.Sprintf(" (%s)", rec.Color)
				}
				line += fmt.Sprintf(" - $%.2f", rec.Price)
				if rec.SKU != "" {
					line += color.New(color.Faint).Sprintf(" [%s]", rec.SKU)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	return cmd
}
