package llm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPriceKey names the row used for models missing from the table.
const DefaultPriceKey = "default"

// Price is the USD cost per token for prompt and completion tokens.
type Price struct {
	Input  float64
	Output float64
}

// PriceTable maps lower-cased model names to prices.
type PriceTable map[string]Price

func perMillion(input, output float64) Price {
	return Price{Input: input / 1_000_000, Output: output / 1_000_000}
}

// DefaultPrices returns the built-in price table.
func DefaultPrices() PriceTable {
	return PriceTable{
		"gpt-4o":                  perMillion(2.50, 10.00),
		"gpt-4o-mini":             perMillion(0.15, 0.60),
		"gpt-4.1":                 perMillion(2.00, 8.00),
		"gpt-4.1-mini":            perMillion(0.40, 1.60),
		"gpt-5":                   perMillion(1.25, 10.00),
		"gpt-5-mini":              perMillion(0.25, 2.00),
		"o3":                      perMillion(2.00, 8.00),
		"o4-mini":                 perMillion(1.10, 4.40),
		"claude-sonnet-4-5":       perMillion(3.00, 15.00),
		"claude-opus-4-1":         perMillion(15.00, 75.00),
		"claude-3-5-haiku-latest": perMillion(0.80, 4.00),
		"claude-3-5-haiku":        perMillion(0.80, 4.00),
		"gemini-2.5-pro":          perMillion(1.25, 10.00),
		"gemini-2.5-flash":        perMillion(0.30, 2.50),
		"sonar":                   perMillion(1.00, 1.00),
		"sonar-pro":               perMillion(3.00, 15.00),
		"deepseek-chat":           perMillion(0.27, 1.10),
		"deepseek-reasoner":       perMillion(0.55, 2.19),
		DefaultPriceKey:           perMillion(1.00, 3.00),
	}
}

// Match finds the row for model: the exact key, else the longest key that model
// extends at a "-" boundary, so gpt-4o-2024-08-06 is priced as gpt-4o.
func (t PriceTable) Match(model string) (Price, bool) {
	model = strings.ToLower(strings.TrimSpace(model))
	if model == "" {
		return Price{}, false
	}
	if p, ok := t[model]; ok {
		return p, true
	}
	best := ""
	for key := range t {
		if key == DefaultPriceKey || len(key) <= len(best) {
			continue
		}
		if strings.HasPrefix(model, key+"-") {
			best = key
		}
	}
	if best == "" {
		return Price{}, false
	}
	return t[best], true
}

// Lookup returns the price for model, or the default row when nothing matches.
func (t PriceTable) Lookup(model string) Price {
	if p, ok := t.Match(model); ok {
		return p
	}
	return t[DefaultPriceKey]
}

// Cost estimates the USD cost of a completion.
func (t PriceTable) Cost(model string, promptTokens, completionTokens int) float64 {
	p := t.Lookup(model)
	return float64(promptTokens)*p.Input + float64(completionTokens)*p.Output
}

// Merge returns a copy of t with every row of other applied on top.
func (t PriceTable) Merge(other PriceTable) PriceTable {
	out := make(PriceTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

type priceFileRow struct {
	InputPerMillion  *float64 `yaml:"input_per_million"`
	OutputPerMillion *float64 `yaml:"output_per_million"`
}

// ParsePrices decodes a YAML price document keyed by model name with
// input_per_million and output_per_million USD values.
func ParsePrices(data []byte) (PriceTable, error) {
	var rows map[string]priceFileRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse price file: %w", err)
	}
	out := make(PriceTable, len(rows))
	for model, row := range rows {
		if row.InputPerMillion == nil || row.OutputPerMillion == nil {
			return nil, fmt.Errorf("price file: model %q needs input_per_million and output_per_million", model)
		}
		if *row.InputPerMillion < 0 || *row.OutputPerMillion < 0 {
			return nil, fmt.Errorf("price file: model %q has a negative price", model)
		}
		out[strings.ToLower(strings.TrimSpace(model))] = perMillion(*row.InputPerMillion, *row.OutputPerMillion)
	}
	return out, nil
}

// LoadPriceFile reads a YAML price document from path.
func LoadPriceFile(path string) (PriceTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price file: %w", err)
	}
	return ParsePrices(data)
}
