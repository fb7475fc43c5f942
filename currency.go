package currency

import "context"

type (
	// Importer fetches rates for every from/to pair. Failures never abort the
	// import, they show up as null rates and messages in the Result.
	Importer interface {
		FetchRates(ctx context.Context, from, to []string) Result
	}
)
