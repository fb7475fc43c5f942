package currency_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/fixerio-import"
)

func TestNewRates(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	rates := currency.NewRates(map[string]decimal.NullDecimal{
		"USD": currency.NewRate(decimal.New(1, 0)),
		"EUR": currency.NewRate(decimal.NewFromFloat(0.9)),
		"JPY": {},
	})

	assert.Equal([]string{"EUR", "JPY", "USD"}, rates.Targets())

	eur, ok := rates.Get("EUR")
	assert.True(ok)
	assert.True(eur.Valid)
	assert.Equal("0.9", eur.Decimal.String())

	jpy, ok := rates.Get("JPY")
	assert.True(ok)
	assert.False(jpy.Valid)

	_, ok = rates.Get("RSD")
	assert.False(ok)
}

func TestNewRate_RoundsToPrecision(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	rate := currency.NewRate(decimal.RequireFromString("1.12345678901234567"))

	assert.True(rate.Valid)
	assert.Equal("1.123456789012", rate.Decimal.String())
}

func TestEmptyRates(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	rates := currency.EmptyRates([]string{"USD", "EUR"})

	assert.Equal([]string{"EUR", "USD"}, rates.Targets())
	for _, rate := range rates {
		assert.False(rate.Value.Valid)
	}
}

func TestRateTable_Currencies(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	importID := uuid.New()
	now := time.Now()

	table := currency.RateTable{
		"USD": currency.NewRates(map[string]decimal.NullDecimal{
			"EUR": currency.NewRate(decimal.NewFromFloat(0.9)),
			"RSD": {},
		}),
		"EUR": currency.NewRates(map[string]decimal.NullDecimal{
			"USD": currency.NewRate(decimal.NewFromFloat(1.1)),
		}),
	}

	currencies := table.Currencies(currency.FixerIoProvider, importID, now)

	assert.Len(currencies, 2)
	assert.Equal("EUR", currencies[0].From)
	assert.Equal("USD", currencies[0].To)
	assert.Equal("USD", currencies[1].From)
	assert.Equal("EUR", currencies[1].To)

	for _, c := range currencies {
		assert.Equal(currency.FixerIoProvider, c.Provider)
		assert.Equal(importID, c.ImportID)
		assert.Equal(now, c.CreatedAt)
	}

	rate, ok := table.Rate("USD", "RSD")
	assert.True(ok)
	assert.False(rate.Valid)

	_, ok = table.Rate("JPY", "USD")
	assert.False(ok)
}
