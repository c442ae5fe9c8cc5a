// Package population serves the static population statistics behind the
// countryPopulation and globalPopulation tools.
package population

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"intentos/internal/cache"
)

// Continent names accepted by CountryQuery.
const (
	Asia         = "Asia"
	Africa       = "Africa"
	Europe       = "Europe"
	NorthAmerica = "North America"
	SouthAmerica = "South America"
	Oceania      = "Oceania"
)

const (
	SortByPopulation = "population"
	SortByGrowthRate = "growthRate"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var ErrInvalidQuery = errors.New("invalid population query")

type (
	Country struct {
		Code       string  `json:"countryCode"`
		Name       string  `json:"countryName"`
		Continent  string  `json:"continent"`
		Population int64   `json:"population"`
		Year       int     `json:"year"`
		GrowthRate float64 `json:"growthRate"`
	}

	YearPopulation struct {
		Year       int     `json:"year"`
		Population int64   `json:"population"`
		GrowthRate float64 `json:"growthRate"`
	}

	// CountryQuery filters and orders countries. Zero values mean every
	// continent, sorted by population, descending, no limit.
	CountryQuery struct {
		Continent string
		SortBy    string
		Limit     int
		Order     string
	}

	// TrendQuery bounds the global series by year, inclusive. Zero means
	// unbounded.
	TrendQuery struct {
		StartYear int
		EndYear   int
	}
)

// Continents returns the continent names in display order.
func Continents() []string {
	return []string{Asia, Africa, Europe, NorthAmerica, SouthAmerica, Oceania}
}

// Source answers population queries from the bundled dataset and caches
// the results.
type Source struct {
	countryCache *cache.LRUCache[[]Country]
	trendCache   *cache.LRUCache[[]YearPopulation]
}

// NewSource returns a source whose caches hold up to size entries each for
// ttl.
func NewSource(size int, ttl time.Duration) *Source {
	return &Source{
		countryCache: cache.NewLRUCache[[]Country](size, ttl),
		trendCache:   cache.NewLRUCache[[]YearPopulation](size, ttl),
	}
}

// Caches returns the caches for registration with a cache.Manager.
func (s *Source) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.countryCache, s.trendCache}
}

// CacheStats reports hit and miss counters per cache.
func (s *Source) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"countries": s.countryCache.Stats(),
		"trend":     s.trendCache.Stats(),
	}
}

func (q CountryQuery) normalize() (CountryQuery, error) {
	q.Continent = strings.TrimSpace(q.Continent)
	if q.SortBy == "" {
		q.SortBy = SortByPopulation
	}
	if q.Order == "" {
		q.Order = OrderDesc
	}
	if q.SortBy != SortByPopulation && q.SortBy != SortByGrowthRate {
		return q, fmt.Errorf("%w: sortBy %q", ErrInvalidQuery, q.SortBy)
	}
	if q.Order != OrderAsc && q.Order != OrderDesc {
		return q, fmt.Errorf("%w: order %q", ErrInvalidQuery, q.Order)
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	return q, nil
}

func (q CountryQuery) key() string {
	return strings.ToLower(q.Continent) + "|" + q.SortBy + "|" + q.Order + "|" + fmt.Sprint(q.Limit)
}

// Countries returns the countries matching q. The continent match ignores
// case.
func (s *Source) Countries(ctx context.Context, q CountryQuery) ([]Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := q.normalize()
	if err != nil {
		return nil, err
	}
	out, err := s.countryCache.GetOrLoad(q.key(), func() ([]Country, error) {
		return queryCountries(q), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]Country(nil), out...), nil
}

func queryCountries(q CountryQuery) []Country {
	out := make([]Country, 0, len(countries))
	for _, c := range countries {
		if q.Continent == "" || strings.EqualFold(c.Continent, q.Continent) {
			out = append(out, c)
		}
	}

	less := func(a, b Country) bool {
		if q.SortBy == SortByGrowthRate {
			return a.GrowthRate < b.GrowthRate
		}
		return a.Population < b.Population
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Order == OrderAsc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})

	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

// GlobalTrend returns the world population series within q.
func (s *Source) GlobalTrend(ctx context.Context, q TrendQuery) ([]YearPopulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.StartYear != 0 && q.EndYear != 0 && q.StartYear > q.EndYear {
		return nil, fmt.Errorf("%w: startYear %d after endYear %d", ErrInvalidQuery, q.StartYear, q.EndYear)
	}
	key := fmt.Sprintf("%d-%d", q.StartYear, q.EndYear)
	out, err := s.trendCache.GetOrLoad(key, func() ([]YearPopulation, error) {
		res := make([]YearPopulation, 0, len(globalTrend))
		for _, p := range globalTrend {
			if q.StartYear != 0 && p.Year < q.StartYear {
				continue
			}
			if q.EndYear != 0 && p.Year > q.EndYear {
				continue
			}
			res = append(res, p)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]YearPopulation(nil), out...), nil
}
