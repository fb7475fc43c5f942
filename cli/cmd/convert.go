package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func convert(cfg *Config) *cobra.Command {
	var from, to, amount string

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an amount using the latest stored rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("amount %q is not a valid number: %w", amount, err)
			}

			deps, _, err := cfg.dependencies(true)
			if err != nil {
				return err
			}

			defer deps.Close()

			converted, err := deps.Conversion.Convert(strings.ToUpper(from), strings.ToUpper(to), value)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), converted.String())

			return nil
		},
	}

	convertCmd.Flags().StringVar(&from, "from", "", "Currency to convert from")
	convertCmd.Flags().StringVar(&to, "to", "", "Currency to convert to")
	convertCmd.Flags().StringVar(&amount, "amount", "1", "Amount to convert")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")

	return convertCmd
}
