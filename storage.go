package currency

type Storage interface {
	Store([]Currency) ([]CurrencyWithID, error)
	// Get returns stored rates for the pair, newest first.
	Get(from, to string, page, perPage int64) ([]CurrencyWithID, error)
	GetStorageProviderName() string
	Migrate() error
	Drop() error
	Close() error
}
