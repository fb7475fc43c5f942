package currency

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	Report struct {
		Result
		ImportID uuid.UUID
		Saved    map[string][]CurrencyWithID
	}

	Service interface {
		Save(ctx context.Context, from, to []string) (Report, error)
	}

	Conversion interface {
		Convert(from, to string, value decimal.Decimal) (decimal.Decimal, error)
	}
)
