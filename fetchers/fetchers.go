package fetchers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

const (
	FixerIoURL = "https://api.apilayer.com/fixer/latest?symbols={{CURRENCY_TO}}&base={{CURRENCY_FROM}}"

	AccessKeyPlaceholder    = "{{ACCESS_KEY}}"
	CurrencyFromPlaceholder = "{{CURRENCY_FROM}}"
	CurrencyToPlaceholder   = "{{CURRENCY_TO}}"

	// maxRetries is the number of extra attempts after a transport failure.
	maxRetries = 1
)

const (
	ErrCodeInvalidAPIKey       = 101
	ErrCodeInactiveAccount     = 102
	ErrCodeBaseNotAllowed      = 105
	ErrCodeInvalidBaseCurrency = 201
)

type (
	fixerIoError struct {
		Code int    `json:"code"`
		Type string `json:"type,omitempty"`
		Info string `json:"info,omitempty"`
	}

	fixerIoResponse struct {
		Success bool                       `json:"success"`
		Base    string                     `json:"base,omitempty"`
		Date    string                     `json:"date,omitempty"`
		Rates   map[string]decimal.Decimal `json:"rates,omitempty"`
		Error   *fixerIoError              `json:"error,omitempty"`
	}
)

var (
	ErrTransport       = errors.New("rate provider is unreachable")
	ErrInvalidResponse = errors.New("rate provider returned an invalid response")
)

const (
	MissingAPIKeyMessage       = "No API Key was specified or an invalid API Key was specified."
	InactiveAccountMessage     = "The account this API request is coming from is inactive."
	InvalidBaseCurrencyMessage = "An invalid base currency has been entered."
	RatesUnavailableMessage    = "Currency rates can't be retrieved."
)

func BaseNotAllowedMessage(base string) string {
	return fmt.Sprintf("The \"%s\" is not allowed as base currency for your subscription plan.", base)
}

func MissingRateMessage(serviceHost, target string) string {
	return fmt.Sprintf("We can't retrieve a rate from %s for %s.", serviceHost, target)
}

// errorMessage maps a provider error code to the message recorded for it.
func errorMessage(code int, base string) string {
	switch code {
	case ErrCodeInvalidAPIKey:
		return MissingAPIKeyMessage
	case ErrCodeInactiveAccount:
		return InactiveAccountMessage
	case ErrCodeBaseNotAllowed:
		return BaseNotAllowedMessage(base)
	case ErrCodeInvalidBaseCurrency:
		return InvalidBaseCurrencyMessage
	}

	return RatesUnavailableMessage
}

// ServiceHost returns scheme://host of rawURL, or an empty string when rawURL
// cannot be parsed.
func ServiceHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return u.Scheme + "://" + u.Host
}
