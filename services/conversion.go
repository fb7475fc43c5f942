package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	currency "github.com/malusev998/fixerio-import"
)

// ConversionPrecision is the number of fractional digits of a converted amount.
const ConversionPrecision = 6

var (
	ErrCurrencyNotFound  = errors.New("rate for the currency is not found in storage")
	ErrNoStorageProvided = errors.New("no storage provided")
	ErrTimeRanOut        = errors.New("time has run out")
)

type (
	ConversionService struct {
		Ctx      context.Context
		Storages []currency.Storage
	}

	fetchCurrencies struct {
		currencies []currency.CurrencyWithID
		error      error
	}
)

// Convert converts value with the latest stored rate for from -> to. With
// more than one storage the first one to answer wins.
func (c ConversionService) Convert(from, to string, value decimal.Decimal) (decimal.Decimal, error) {
	if from == to {
		return value, nil
	}

	if len(c.Storages) == 0 {
		return decimal.Zero, ErrNoStorageProvided
	}

	// Optimization when there is only one storage provider
	if len(c.Storages) == 1 {
		currencies, err := c.Storages[0].Get(from, to, 1, 1)

		if err != nil {
			return decimal.Zero, err
		}

		return convert(value, currencies)
	}

	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	currenciesChannel := make(chan fetchCurrencies, len(c.Storages))

	for _, storage := range c.Storages {
		go func(storage currency.Storage) {
			currencies, err := storage.Get(from, to, 1, 1)
			currenciesChannel <- fetchCurrencies{
				currencies: currencies,
				error:      err,
			}
		}(storage)
	}

	select {
	case <-ctx.Done():
		return decimal.Zero, ErrTimeRanOut

	case data := <-currenciesChannel:
		if data.error != nil {
			return decimal.Zero, data.error
		}

		return convert(value, data.currencies)
	}
}

func convert(value decimal.Decimal, currencies []currency.CurrencyWithID) (decimal.Decimal, error) {
	if len(currencies) == 0 {
		return decimal.Zero, ErrCurrencyNotFound
	}

	return value.Mul(currencies[0].Rate).Round(ConversionPrecision), nil
}
