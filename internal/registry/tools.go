package registry

import (
	"context"
	"fmt"
	"sort"

	applog "intentos/internal/log"
	"intentos/internal/population"
)

// Tool names.
const (
	CountryPopulation = "countryPopulation"
	GlobalPopulation  = "globalPopulation"
)

// PopulationSource answers the population tools.
type PopulationSource interface {
	Countries(ctx context.Context, q population.CountryQuery) ([]population.Country, error)
	GlobalTrend(ctx context.Context, q population.TrendQuery) ([]population.YearPopulation, error)
}

// Tool is a data-fetching function the engine may call. Output describes a
// single element of the array the tool returns.
type Tool struct {
	Name        string
	Description string
	Input       Schema
	Output      Schema

	call func(ctx context.Context, raw map[string]any) (any, error)
}

// ToolRegistry resolves tool names to tools.
type ToolRegistry struct {
	tools map[string]Tool
}

// NewToolRegistry returns a registry with the population tools bound to src.
func NewToolRegistry(src PopulationSource) *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]Tool)}
	for _, t := range populationTools(src) {
		r.tools[t.Name] = t
	}
	return r
}

// Tools returns every registered tool sorted by name.
func (r *ToolRegistry) Tools() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke validates raw against the tool input schema and calls the tool.
func (r *ToolRegistry) Invoke(ctx context.Context, name string, raw map[string]any) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := t.Input.Validate(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	out, err := t.call(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	logger.DebugContext(ctx, "Tool invoked", applog.FieldTool, name)
	return out, nil
}

func populationTools(src PopulationSource) []Tool {
	return []Tool{
		{
			Name:        CountryPopulation,
			Description: "A tool to get population statistics by country with advanced filtering options",
			Input: Schema{Fields: []Field{
				{Name: "continent", Type: String},
				{Name: "sortBy", Type: Enum, Enum: []string{population.SortByPopulation, population.SortByGrowthRate}},
				{Name: "limit", Type: Number},
				{Name: "order", Type: Enum, Enum: []string{population.OrderAsc, population.OrderDesc}},
			}},
			Output: Schema{Fields: []Field{
				{Name: "countryCode", Type: String, Required: true},
				{Name: "countryName", Type: String, Required: true},
				{Name: "continent", Type: Enum, Enum: population.Continents(), Required: true},
				{Name: "population", Type: Number, Required: true},
				{Name: "year", Type: Number, Required: true},
				{Name: "growthRate", Type: Number, Required: true},
			}},
			call: func(ctx context.Context, raw map[string]any) (any, error) {
				var in struct {
					Continent string `json:"continent"`
					SortBy    string `json:"sortBy"`
					Limit     int    `json:"limit"`
					Order     string `json:"order"`
				}
				if err := decode(raw, &in); err != nil {
					return nil, err
				}
				return src.Countries(ctx, population.CountryQuery(in))
			},
		},
		{
			Name:        GlobalPopulation,
			Description: "A tool to get global population trends with optional year range filtering",
			Input: Schema{Fields: []Field{
				{Name: "startYear", Type: Number},
				{Name: "endYear", Type: Number},
			}},
			Output: Schema{Fields: []Field{
				{Name: "year", Type: Number, Required: true},
				{Name: "population", Type: Number, Required: true},
				{Name: "growthRate", Type: Number, Required: true},
			}},
			call: func(ctx context.Context, raw map[string]any) (any, error) {
				var in struct {
					StartYear int `json:"startYear"`
					EndYear   int `json:"endYear"`
				}
				if err := decode(raw, &in); err != nil {
					return nil, err
				}
				return src.GlobalTrend(ctx, population.TrendQuery(in))
			},
		},
	}
}
