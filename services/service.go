package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	currency "github.com/malusev998/fixerio-import"
)

type Service struct {
	Importer currency.Importer
	Storage  []currency.Storage
	Provider currency.Provider
}

func saveToStorage(
	wg *sync.WaitGroup,
	currencies []currency.Currency,
	data map[string][]currency.CurrencyWithID,
	storage currency.Storage,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()
	c, err := storage.Store(currencies)

	if err != nil {
		errorChannel <- err
		return
	}

	mutex.Lock()
	data[storage.GetStorageProviderName()] = c
	mutex.Unlock()
}

// Save imports the rates and stores every non null rate in all storages.
// Import problems are reported through the messages of the report, only a
// storage failure is returned as an error.
func (s Service) Save(ctx context.Context, from, to []string) (currency.Report, error) {
	var wg sync.WaitGroup
	mutex := &sync.Mutex{}

	provider := s.Provider
	if provider == currency.EmptyProvider {
		provider = currency.FixerIoProvider
	}

	report := currency.Report{
		Result:   s.Importer.FetchRates(ctx, from, to),
		ImportID: uuid.New(),
		Saved:    make(map[string][]currency.CurrencyWithID, len(s.Storage)),
	}

	currencies := report.Rates.Currencies(provider, report.ImportID, time.Now())

	if len(currencies) == 0 {
		return report, nil
	}

	errorChannel := make(chan error, len(s.Storage))

	wg.Add(len(s.Storage))
	for _, storage := range s.Storage {
		go saveToStorage(&wg, currencies, report.Saved, storage, errorChannel, mutex)
	}

	wg.Wait()
	close(errorChannel)

	if err, more := <-errorChannel; more {
		return report, err
	}

	return report, nil
}
