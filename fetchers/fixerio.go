package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	currency "github.com/malusev998/fixerio-import"
	"github.com/malusev998/fixerio-import/config"
	"github.com/malusev998/fixerio-import/metrics"
)

type (
	// FixerIoFetcher imports rates from the apilayer Fixer API, one request per
	// base currency.
	FixerIoFetcher struct {
		URL      string
		Settings config.Reader
		Clients  ClientFactory
		Logger   logrus.FieldLogger
		Metrics  metrics.Recorder
	}

	batch struct {
		messages []string
	}
)

var _ currency.Importer = FixerIoFetcher{}

func (b *batch) add(message string) {
	b.messages = append(b.messages, message)
}

func (f FixerIoFetcher) FetchRates(ctx context.Context, from, to []string) currency.Result {
	f = f.withDefaults()
	b := &batch{messages: make([]string, 0)}
	table := make(currency.RateTable, len(from))

	for _, base := range from {
		table[base] = f.convertBatch(ctx, b, base, to)
	}

	return currency.Result{
		Rates:    table,
		Messages: b.messages,
	}
}

func (f FixerIoFetcher) convertBatch(ctx context.Context, b *batch, base string, targets []string) currency.Rates {
	logger := f.Logger.WithField("base", base)
	accessKey := f.Settings.Value(config.APIKeyPath)

	if accessKey == "" {
		logger.Warn("no API key configured, skipping rate provider")
		f.Metrics.MissingAPIKey(base)
		b.add(MissingAPIKeyMessage)

		return currency.EmptyRates(targets)
	}

	url := f.buildURL(accessKey, base, targets)
	response := f.getServiceResponse(ctx, logger, url, accessKey, base)

	if !f.validateResponse(b, response, base) {
		logger.Warn("rate provider rejected the request")

		return currency.EmptyRates(targets)
	}

	rates := make(map[string]decimal.NullDecimal, len(targets))

	for _, target := range targets {
		if target == base {
			rates[target] = currency.NewRate(decimal.New(1, 0))
			continue
		}

		rate, ok := response.Rates[target]

		if !ok || rate.IsZero() {
			f.Metrics.MissingRate(base, target)
			b.add(MissingRateMessage(ServiceHost(url), target))
			rates[target] = decimal.NullDecimal{}

			continue
		}

		rates[target] = currency.NewRate(rate)
	}

	return currency.NewRates(rates)
}

func (f FixerIoFetcher) buildURL(accessKey, base string, targets []string) string {
	return strings.NewReplacer(
		AccessKeyPlaceholder, accessKey,
		CurrencyFromPlaceholder, base,
		CurrencyToPlaceholder, strings.Join(targets, ","),
	).Replace(f.URL)
}

// getServiceResponse returns nil when the provider could not be reached after
// the retry.
func (f FixerIoFetcher) getServiceResponse(
	ctx context.Context,
	logger logrus.FieldLogger,
	url string,
	accessKey string,
	base string,
) *fixerIoResponse {
	client := f.Clients.Create(config.Timeout(f.Settings))

	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		var response *fixerIoResponse

		f.Metrics.RequestAttempt(base)

		if response, err = f.request(ctx, client, url, accessKey); err == nil {
			return response
		}

		logger.WithError(err).WithField("attempt", attempt).Debug("request to rate provider failed")
	}

	f.Metrics.RequestFailed(base)
	logger.WithError(fmt.Errorf("%w: %v", ErrTransport, err)).Warn("giving up on rate provider")

	return nil
}

func (f FixerIoFetcher) request(ctx context.Context, client HTTPClient, url, accessKey string) (*fixerIoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("apikey", accessKey)

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var data fixerIoResponse

	if err := json.Unmarshal(body, &data); err != nil {
		f.Logger.
			WithError(fmt.Errorf("%w: %v", ErrInvalidResponse, err)).
			WithField("status", res.StatusCode).
			Warn("cannot decode rate provider response")

		return &fixerIoResponse{}, nil
	}

	return &data, nil
}

func (f FixerIoFetcher) validateResponse(b *batch, response *fixerIoResponse, base string) bool {
	if response != nil && response.Success {
		return true
	}

	if response == nil || response.Error == nil {
		b.add(RatesUnavailableMessage)

		return false
	}

	f.Metrics.ProviderError(base, response.Error.Code)
	b.add(errorMessage(response.Error.Code, base))

	return false
}
