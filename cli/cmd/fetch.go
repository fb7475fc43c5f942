package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	currency "github.com/malusev998/fixerio-import"
	"github.com/malusev998/fixerio-import/config"
)

var ErrNoCurrencies = errors.New("base and target currencies are required")

type fetchFlags struct {
	from        []string
	to          []string
	save        bool
	standalone  bool
	after       time.Duration
	metricsAddr string
}

func printRates(out io.Writer, result currency.Result) {
	for _, base := range result.Rates.Bases() {
		for _, rate := range result.Rates[base] {
			value := "n/a"

			if rate.Value.Valid {
				value = rate.Value.Decimal.String()
			}

			fmt.Fprintf(out, "%s\t%s\t%s\n", base, rate.To, value)
		}
	}
}

func logMessages(logger logrus.FieldLogger, messages []string) {
	for _, message := range messages {
		logger.Warn(message)
	}
}

func handleCurrencyImport(cmd *cobra.Command, cfg *Config, deps *Dependencies, flags *fetchFlags) error {
	if !flags.save {
		result := deps.Importer.FetchRates(cfg.Ctx, flags.from, flags.to)
		printRates(cmd.OutOrStdout(), result)
		logMessages(cfg.Logger, result.Messages)

		return nil
	}

	report, err := deps.Service.Save(cfg.Ctx, flags.from, flags.to)
	printRates(cmd.OutOrStdout(), report.Result)
	logMessages(cfg.Logger, report.Messages)

	if err != nil {
		return err
	}

	for storage, currencies := range report.Saved {
		cfg.Logger.
			WithField("storage", storage).
			WithField("import", report.ImportID.String()).
			Infof("%d rates saved", len(currencies))

		for i, c := range currencies {
			cfg.Logger.Debugf("%d\tCurrency %s_%s saved to %s: Rate: %s", i, c.From, c.To, storage, c.Rate.String())
		}
	}

	return nil
}

func fetchCobraCommand(cfg *Config, flags *fetchFlags) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		deps, opts, err := cfg.dependencies(flags.save)
		if err != nil {
			return err
		}

		defer deps.Close()

		if len(flags.from) == 0 {
			flags.from = opts.Viper.GetStringSlice(config.BaseCurrenciesKey)
		}

		if len(flags.to) == 0 {
			flags.to = opts.Viper.GetStringSlice(config.AllowedCurrenciesKey)
		}

		if len(flags.from) == 0 || len(flags.to) == 0 {
			return ErrNoCurrencies
		}

		if err := handleCurrencyImport(cmd, cfg, deps, flags); err != nil {
			cfg.Logger.WithError(err).Error("currency import failed")

			if !flags.standalone {
				return err
			}
		}

		if !flags.standalone {
			return nil
		}

		if flags.metricsAddr != "" {
			serveMetrics(cfg.Ctx, flags.metricsAddr, cfg.Registry, cfg.Logger)
		}

		for {
			select {
			case <-time.After(flags.after):
				if err := handleCurrencyImport(cmd, cfg, deps, flags); err != nil {
					cfg.Logger.WithError(err).Error("currency import failed")
				}
			case <-cfg.Ctx.Done():
				return nil
			}
		}
	}
}

func fetch(cfg *Config) *cobra.Command {
	flags := &fetchFlags{}

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch rates for every base and target currency",
	}

	fetchCmd.RunE = fetchCobraCommand(cfg, flags)
	fetchCmd.Flags().StringSliceVar(&flags.from, "from", nil, "Base currencies (defaults to currencies.base)")
	fetchCmd.Flags().StringSliceVar(&flags.to, "to", nil, "Target currencies (defaults to currencies.allowed)")
	fetchCmd.Flags().BoolVar(&flags.save, "save", false, "Store the fetched rates")
	fetchCmd.Flags().BoolVar(&flags.standalone, "standalone", false, "Start up a long running fetching service")
	fetchCmd.Flags().DurationVar(&flags.after, "after", time.Duration(1)*time.Hour, "Fetching for standalone process")
	fetchCmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Address of the metrics endpoint in standalone mode")

	return fetchCmd
}
