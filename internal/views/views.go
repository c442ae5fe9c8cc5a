// Package views holds the pure read transformations over a ledger snapshot:
// aggregation for charts, filtered listing for tables and category styling.
// Nothing here mutates its input.
package views

import "intentos/internal/core"

// DefaultLimit is the table row limit used when a caller supplies none.
const DefaultLimit = 10

// Aggregate groups records by exact category and sums their amounts. Groups
// are returned in the order their category first appears in records.
func Aggregate(records []core.Expense) []core.CategoryAmount {
	out := []core.CategoryAmount{}
	index := make(map[string]int)
	for _, e := range records {
		i, ok := index[e.Category]
		if !ok {
			index[e.Category] = len(out)
			out = append(out, core.CategoryAmount{Category: e.Category, Total: e.Amount})
			continue
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out
}

// Total sums every record.
func Total(records []core.Expense) core.Money {
	var t core.Money
	for _, e := range records {
		t = t.Add(e.Amount)
	}
	return t
}

// List keeps records whose category equals filterCategory (all records when
// filterCategory is empty) and returns at most limit of them in input order.
func List(records []core.Expense, filterCategory string, limit int) []core.Expense {
	out := []core.Expense{}
	if limit <= 0 {
		return out
	}
	for _, e := range records {
		if filterCategory != "" && e.Category != filterCategory {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Share is a category's fraction of the aggregate, in percent.
type Share struct {
	core.CategoryAmount
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// Shares annotates each aggregate with its percentage of the total and its
// chart colour. Percentages are zero when the total is zero.
func Shares(amounts []core.CategoryAmount) []Share {
	var total int64
	for _, a := range amounts {
		total += a.Total.Cents
	}
	out := make([]Share, 0, len(amounts))
	for i, a := range amounts {
		s := Share{CategoryAmount: a, Color: ChartColor(i)}
		if total > 0 {
			s.Percent = float64(a.Total.Cents) * 100 / float64(total)
		}
		out = append(out, s)
	}
	return out
}
