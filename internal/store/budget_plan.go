package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// BudgetPlanEntry is one category limit in a budget plan file.
type BudgetPlanEntry struct {
	Category string          `yaml:"category"`
	Limit    decimal.Decimal `yaml:"-"`
}

type planEntryYAML struct {
	Category string    `yaml:"category"`
	Limit    yamlLimit `yaml:"limit"`
}

type budgetPlanFile struct {
	Budgets []planEntryYAML `yaml:"budgets"`
}

// yamlLimit accepts a YAML number or string and keeps it exact.
type yamlLimit struct {
	decimal.Decimal
}

func (l *yamlLimit) UnmarshalYAML(node *yaml.Node) error {
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid limit %q", node.Line, node.Value)
	}
	l.Decimal = d
	return nil
}

func (l yamlLimit) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: l.Decimal.String()}, nil
}

// LoadBudgetPlan reads a plan from path. The file is either a mapping with a
// "budgets" list or a bare list of {category, limit}. A missing file is an empty plan.
func LoadBudgetPlan(path string) ([]BudgetPlanEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []BudgetPlanEntry{}, nil
		}
		return nil, fmt.Errorf("error reading budget plan: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing budget plan: %w", err)
	}
	if len(doc.Content) == 0 {
		return []BudgetPlanEntry{}, nil
	}

	var entries []planEntryYAML
	switch doc.Content[0].Kind {
	case yaml.SequenceNode:
		err = doc.Content[0].Decode(&entries)
	default:
		var file budgetPlanFile
		err = doc.Content[0].Decode(&file)
		entries = file.Budgets
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing budget plan: %w", err)
	}

	plan := make([]BudgetPlanEntry, 0, len(entries))
	for _, e := range entries {
		plan = append(plan, BudgetPlanEntry{Category: e.Category, Limit: e.Limit.Decimal})
	}
	return plan, nil
}

// SaveBudgetPlan writes plan to path in the "budgets:" form, creating the directory if needed.
func SaveBudgetPlan(path string, plan []BudgetPlanEntry) error {
	file := budgetPlanFile{Budgets: make([]planEntryYAML, 0, len(plan))}
	for _, e := range plan {
		file.Budgets = append(file.Budgets, planEntryYAML{Category: e.Category, Limit: yamlLimit{e.Limit}})
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("error marshaling budget plan: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing budget plan: %w", err)
	}
	return nil
}
