package currency

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RatePrecision is the number of fractional digits every rate is rounded to.
const RatePrecision = 12

type (
	Rate struct {
		To    string
		Value decimal.NullDecimal
	}

	// Rates holds every target rate for one base currency, sorted by target.
	Rates []Rate

	// RateTable maps a base currency to its rates.
	RateTable map[string]Rates

	Result struct {
		Rates    RateTable
		Messages []string
	}

	Currency struct {
		From      string
		To        string
		Provider  Provider
		Rate      decimal.Decimal
		ImportID  uuid.UUID
		CreatedAt time.Time
	}

	CurrencyWithID struct {
		Currency
		ID interface{}
	}
)

// NewRate rounds value to RatePrecision.
func NewRate(value decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: value.Round(RatePrecision), Valid: true}
}

// NewRates builds a sorted row out of target -> rate pairs.
func NewRates(values map[string]decimal.NullDecimal) Rates {
	rates := make(Rates, 0, len(values))

	for to, value := range values {
		rates = append(rates, Rate{To: to, Value: value})
	}

	sort.Slice(rates, func(i, j int) bool {
		return rates[i].To < rates[j].To
	})

	return rates
}

// EmptyRates returns a row with a null rate for every target.
func EmptyRates(targets []string) Rates {
	values := make(map[string]decimal.NullDecimal, len(targets))

	for _, to := range targets {
		values[to] = decimal.NullDecimal{}
	}

	return NewRates(values)
}

func (r Rates) Get(to string) (decimal.NullDecimal, bool) {
	for _, rate := range r {
		if rate.To == to {
			return rate.Value, true
		}
	}

	return decimal.NullDecimal{}, false
}

func (r Rates) Targets() []string {
	targets := make([]string, 0, len(r))

	for _, rate := range r {
		targets = append(targets, rate.To)
	}

	return targets
}

func (t RateTable) Rate(from, to string) (decimal.NullDecimal, bool) {
	rates, ok := t[from]
	if !ok {
		return decimal.NullDecimal{}, false
	}

	return rates.Get(to)
}

// Bases returns the base currencies in ascending order.
func (t RateTable) Bases() []string {
	bases := make([]string, 0, len(t))

	for base := range t {
		bases = append(bases, base)
	}

	sort.Strings(bases)

	return bases
}

// Currencies flattens the table into rows ready to be stored. Null rates are
// skipped.
func (t RateTable) Currencies(provider Provider, importID uuid.UUID, createdAt time.Time) []Currency {
	currencies := make([]Currency, 0, len(t))

	for _, from := range t.Bases() {
		for _, rate := range t[from] {
			if !rate.Value.Valid {
				continue
			}

			currencies = append(currencies, Currency{
				From:      from,
				To:        rate.To,
				Provider:  provider,
				Rate:      rate.Value.Decimal,
				ImportID:  importID,
				CreatedAt: createdAt,
			})
		}
	}

	return currencies
}
