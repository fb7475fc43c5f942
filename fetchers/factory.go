package fetchers

import (
	"github.com/sirupsen/logrus"

	currency "github.com/malusev998/fixerio-import"
	"github.com/malusev998/fixerio-import/config"
	"github.com/malusev998/fixerio-import/metrics"
)

type (
	BaseConfig struct {
		URL    string
		Logger logrus.FieldLogger
	}

	FixerIoConfig struct {
		BaseConfig
		Settings config.Reader
		Clients  ClientFactory
		Metrics  metrics.Recorder
	}
)

func NewCurrencyFetcher(c FixerIoConfig) currency.Importer {
	return FixerIoFetcher{
		URL:      c.URL,
		Settings: c.Settings,
		Clients:  c.Clients,
		Logger:   c.Logger,
		Metrics:  c.Metrics,
	}.withDefaults()
}

// withDefaults fills every unset dependency. The URL template comes from the
// settings when not set explicitly.
func (f FixerIoFetcher) withDefaults() FixerIoFetcher {
	if f.Settings == nil {
		f.Settings = config.Static{}
	}

	if f.URL == "" {
		f.URL = f.Settings.Value(config.URLPath)
	}

	if f.URL == "" {
		f.URL = FixerIoURL
	}

	if f.Clients == nil {
		f.Clients = DefaultClientFactory{}
	}

	if f.Logger == nil {
		f.Logger = logrus.StandardLogger()
	}

	if f.Metrics == nil {
		f.Metrics = metrics.Nop{}
	}

	return f
}
