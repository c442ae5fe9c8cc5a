package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentos/internal/events"
	"intentos/internal/ledger/memory"
	"intentos/internal/population"
	"intentos/internal/registry"
	"intentos/internal/session"
	"intentos/internal/theme"
)

func TestDispatchReportsPerItem(t *testing.T) {
	reg, err := registry.New(population.NewSource(4, time.Minute))
	require.NoError(t, err)

	m := session.NewManager(memory.New(), events.Nop{}, session.Config{})
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	ctx := session.WithContext(context.Background(), s)

	results := NewDispatcher(reg).Dispatch(ctx, []Directive{
		{Kind: KindComponent, Name: "ThemeAction", Props: map[string]any{"theme": "jedi"}},
		{Kind: KindComponent, Name: "Graph"},
		{Kind: KindTool, Name: "globalPopulation", Props: map[string]any{"startYear": 2023}},
		{Kind: "video", Name: "x"},
		{Kind: KindComponent, Name: "ExpenseTable"},
	})
	require.Len(t, results, 5)

	require.NotNil(t, results[0].Rendered)
	assert.Equal(t, theme.Jedi, s.Theme().Mode())

	assert.Contains(t, results[1].Error, "unknown component")
	assert.Nil(t, results[1].Rendered)

	require.Empty(t, results[2].Error)
	assert.Len(t, results[2].Output, 1)

	assert.Equal(t, `unknown directive kind "video"`, results[3].Error)

	require.NotNil(t, results[4].Rendered)
	assert.Contains(t, string(results[4].Rendered.HTML), "Groceries")

	summary := Summary(results)
	assert.Contains(t, summary, "rendered ThemeAction")
	assert.Contains(t, summary, "called globalPopulation")
	assert.Contains(t, summary, "component Graph failed")
	assert.Equal(t, "rendered nothing", Summary(nil))
}
