// Package pricing reads the profit table credited on order completion from YAML.
//
// File format:
//
//	commission: 10
//	membersProfit: 15
//	profitBehindOrder:
//	  149: 30
//	  299: 60
package pricing

import (
	"bytes"
	"fmt"
	"os"

	"orderflow/internal/core/domain/services"

	"gopkg.in/yaml.v3"
)

type tableFile struct {
	Commission        *int64        `yaml:"commission"`
	MembersProfit     *int64        `yaml:"membersProfit"`
	ProfitBehindOrder map[int]int64 `yaml:"profitBehindOrder"`
}

// Parse decodes a pricing table. Keys missing from data keep their default value.
func Parse(data []byte) (services.PricingTable, error) {
	table := services.DefaultPricingTable()
	if len(bytes.TrimSpace(data)) == 0 {
		return table, nil
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return services.PricingTable{}, fmt.Errorf("pricing: decode table: %w", err)
	}

	if file.Commission != nil {
		table.Commission = *file.Commission
	}
	if file.MembersProfit != nil {
		table.MembersProfit = *file.MembersProfit
	}
	if len(file.ProfitBehindOrder) > 0 {
		table.ProfitBehindOrder = file.ProfitBehindOrder
	}
	return table, nil
}

// Load builds a calculator from the file at path, or from the defaults when path is empty.
func Load(path string) (*services.ProfitCalculator, error) {
	table := services.DefaultPricingTable()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("pricing: read %s: %w", path, err)
		}
		if table, err = Parse(data); err != nil {
			return nil, fmt.Errorf("pricing: %s: %w", path, err)
		}
	}

	calculator, err := services.NewProfitCalculator(table)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	return calculator, nil
}
