package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/fixerio-import"
	"github.com/malusev998/fixerio-import/config"
	"github.com/malusev998/fixerio-import/fetchers"
	"github.com/malusev998/fixerio-import/metrics"
)

type (
	fixerMock struct {
		apiKey string
		rates  map[string]map[string]float64
	}

	serviceMock struct {
		importer currency.Importer
		saved    int
	}

	conversionMock struct {
		rate decimal.Decimal
	}
)

func (h fixerMock) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("apikey") != h.apiKey {
		_, _ = w.Write([]byte(`{"success": false, "error": {"code": 101}}`))
		return
	}

	base := r.URL.Query().Get("base")
	rates := make(map[string]float64)

	for _, symbol := range strings.Split(r.URL.Query().Get("symbols"), ",") {
		if rate, ok := h.rates[base][symbol]; ok {
			rates[symbol] = rate
		}
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"success": true,
		"base":    base,
		"rates":   rates,
	})

	_, _ = w.Write(payload)
}

func (s *serviceMock) Save(ctx context.Context, from, to []string) (currency.Report, error) {
	result := s.importer.FetchRates(ctx, from, to)
	s.saved++

	return currency.Report{
		Result: result,
		Saved: map[string][]currency.CurrencyWithID{
			"mysql": {},
		},
	}, nil
}

func (c conversionMock) Convert(from, to string, value decimal.Decimal) (decimal.Decimal, error) {
	if from == "XXX" {
		return decimal.Zero, errors.New("currency not found")
	}

	return value.Mul(c.rate), nil
}

func writeConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "currency-import")
	require.Nil(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	file := filepath.Join(dir, "config.yml")
	require.Nil(t, ioutil.WriteFile(file, []byte(content), 0o600))

	return file
}

func testConfigFile(t *testing.T, serverURL string) string {
	return writeConfig(t, fmt.Sprintf(`
currency:
  fixerio:
    api_key: default-key
    url: "%s/latest?symbols={{CURRENCY_TO}}&base={{CURRENCY_FROM}}"
currencies:
  base: [EUR]
  allowed: [EUR, USD]
stores:
  serbia:
    currency:
      fixerio:
        api_key: serbia-key
`, serverURL))
}

func testFactory(service *serviceMock) Factory {
	return func(ctx context.Context, opts Options) (*Dependencies, error) {
		importer := fetchers.NewCurrencyFetcher(fetchers.FixerIoConfig{
			BaseConfig: fetchers.BaseConfig{Logger: opts.Logger},
			Settings:   config.NewScopedReader(opts.Viper, opts.Store),
			Metrics:    metrics.NewPrometheus(opts.Registerer),
		})

		if service != nil {
			service.importer = importer
		}

		return &Dependencies{
			Importer:   importer,
			Service:    service,
			Conversion: conversionMock{rate: decimal.RequireFromString("1.5")},
		}, nil
	}
}

func execute(t *testing.T, factory Factory, args ...string) (string, string, *Config, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cfg := &Config{
		Ctx:      context.Background(),
		Factory:  factory,
		Registry: prometheus.NewRegistry(),
		Logger:   logrus.New(),
	}

	rootCmd := NewRootCommand(cfg, out, errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	return out.String(), errOut.String(), cfg, err
}

func TestFetchCommand_PrintsRates(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	server := httptest.NewServer(fixerMock{
		apiKey: "default-key",
		rates:  map[string]map[string]float64{"EUR": {"USD": 1.18}},
	})
	defer server.Close()

	out, errOut, _, err := execute(t, testFactory(nil),
		"fetch", "--config", testConfigFile(t, server.URL), "--from", "EUR", "--to", "USD,RSD,EUR",
	)

	assert.Nil(err)
	assert.Equal("EUR\tEUR\t1\nEUR\tRSD\tn/a\nEUR\tUSD\t1.18\n", out)
	assert.Contains(errOut, fetchers.MissingRateMessage(fetchers.ServiceHost(server.URL), "RSD"))
}

func TestFetchCommand_CurrenciesFromConfig(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	server := httptest.NewServer(fixerMock{
		apiKey: "default-key",
		rates:  map[string]map[string]float64{"EUR": {"USD": 1.18}},
	})
	defer server.Close()

	out, _, _, err := execute(t, testFactory(nil), "fetch", "--config", testConfigFile(t, server.URL))

	assert.Nil(err)
	assert.Equal("EUR\tEUR\t1\nEUR\tUSD\t1.18\n", out)
}

func TestFetchCommand_StoreScope(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	server := httptest.NewServer(fixerMock{
		apiKey: "serbia-key",
		rates:  map[string]map[string]float64{"EUR": {"USD": 1.17}},
	})
	defer server.Close()
	file := testConfigFile(t, server.URL)

	out, _, _, err := execute(t, testFactory(nil), "fetch", "--config", file, "--store", "serbia")
	assert.Nil(err)
	assert.Equal("EUR\tEUR\t1\nEUR\tUSD\t1.17\n", out)

	out, errOut, _, err := execute(t, testFactory(nil), "fetch", "--config", file)
	assert.Nil(err)
	assert.Equal("EUR\tEUR\tn/a\nEUR\tUSD\tn/a\n", out)
	assert.Contains(errOut, fetchers.MissingAPIKeyMessage)
}

func TestFetchCommand_NoCurrencies(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	_, _, _, err := execute(t, testFactory(nil), "fetch", "--config", writeConfig(t, "currencies:\n  base: [EUR]\n"))

	assert.True(errors.Is(err, ErrNoCurrencies))
}

func TestFetchCommand_Save(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	server := httptest.NewServer(fixerMock{
		apiKey: "default-key",
		rates:  map[string]map[string]float64{"EUR": {"USD": 1.18}},
	})
	defer server.Close()
	service := &serviceMock{}

	out, _, _, err := execute(t, testFactory(service), "fetch", "--config", testConfigFile(t, server.URL), "--save")

	assert.Nil(err)
	assert.Equal(1, service.saved)
	assert.Equal("EUR\tEUR\t1\nEUR\tUSD\t1.18\n", out)
}

func TestFetchCommand_RecordsMetrics(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	server := httptest.NewServer(fixerMock{
		apiKey: "default-key",
		rates:  map[string]map[string]float64{"EUR": {}},
	})
	defer server.Close()

	_, _, cfg, err := execute(t, testFactory(nil), "fetch", "--config", testConfigFile(t, server.URL))
	assert.Nil(err)

	metricsServer := httptest.NewServer(metricsRouter(cfg.Registry))
	defer metricsServer.Close()

	res, err := http.Get(metricsServer.URL + "/metrics")
	assert.Nil(err)
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	assert.Nil(err)
	assert.Equal(http.StatusOK, res.StatusCode)
	assert.Contains(string(body), `currency_import_requests_total{base="EUR"} 1`)
	assert.Contains(string(body), `currency_import_missing_rates_total{base="EUR",target="USD"} 1`)
}

func TestConvertCommand(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	file := writeConfig(t, "")

	out, _, _, err := execute(t, testFactory(nil), "convert", "--config", file, "--from", "eur", "--to", "usd", "--amount", "10")
	assert.Nil(err)
	assert.Equal("15\n", out)

	_, _, _, err = execute(t, testFactory(nil), "convert", "--config", file, "--from", "EUR", "--to", "USD", "--amount", "ten")
	assert.Error(err)

	_, _, _, err = execute(t, testFactory(nil), "convert", "--config", file, "--from", "XXX", "--to", "USD")
	assert.EqualError(err, "currency not found")
}
