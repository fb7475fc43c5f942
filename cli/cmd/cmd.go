package cmd

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	currency "github.com/malusev998/fixerio-import"
	"github.com/malusev998/fixerio-import/config"
)

const Version = "v2.0.0"

type (
	// Options describe what the command being executed needs.
	Options struct {
		Viper      *viper.Viper
		Store      string
		Storage    bool
		Registerer prometheus.Registerer
		Logger     logrus.FieldLogger
	}

	Dependencies struct {
		Importer   currency.Importer
		Service    currency.Service
		Conversion currency.Conversion
		Close      func() error
	}

	Factory func(ctx context.Context, opts Options) (*Dependencies, error)

	Config struct {
		Ctx        context.Context
		Factory    Factory
		Registry   *prometheus.Registry
		Logger     *logrus.Logger
		debug      bool
		configFile string
		store      string
	}
)

func (c *Config) options(storage bool) (Options, error) {
	v, err := config.New(c.configFile)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Viper:      v,
		Store:      c.store,
		Storage:    storage,
		Registerer: c.Registry,
		Logger:     c.Logger,
	}, nil
}

func (c *Config) dependencies(storage bool) (*Dependencies, Options, error) {
	opts, err := c.options(storage)
	if err != nil {
		return nil, Options{}, err
	}

	deps, err := c.Factory(c.Ctx, opts)
	if err != nil {
		return nil, Options{}, err
	}

	if deps.Close == nil {
		deps.Close = func() error { return nil }
	}

	return deps, opts, nil
}

func NewRootCommand(config *Config, out, errOut io.Writer) *cobra.Command {
	if config.Ctx == nil {
		config.Ctx = context.Background()
	}

	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	rootCmd := &cobra.Command{
		Use:           "currency-import",
		Short:         "Fixer.io currency rate importer",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.Logger.SetOutput(errOut)

			if config.debug {
				config.Logger.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().BoolVar(&config.debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&config.configFile, "config", "./config.yml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&config.store, "store", "", "Store code whose settings override the defaults")

	rootCmd.AddCommand(fetch(config), convert(config))

	return rootCmd
}

func Execute(config *Config, out, errOut io.Writer) error {
	return NewRootCommand(config, out, errOut).Execute()
}
