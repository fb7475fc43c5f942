package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	APIKeyPath  = "currency/fixerio/api_key"
	TimeoutPath = "currency/fixerio/timeout"
	URLPath     = "currency/fixerio/url"

	BaseCurrenciesKey    = "currencies.base"
	AllowedCurrenciesKey = "currencies.allowed"

	EnvPrefix      = "CURRENCY_IMPORT"
	DefaultTimeout = 100 * time.Second

	storesKey = "stores"
)

type (
	// Reader resolves slash separated setting paths, e.g. currency/fixerio/api_key.
	Reader interface {
		Value(path string) string
	}

	// ScopedReader reads store scoped values first and falls back to the
	// default scope.
	ScopedReader struct {
		viper *viper.Viper
		store string
	}

	Static map[string]string
)

func NewScopedReader(v *viper.Viper, store string) ScopedReader {
	return ScopedReader{viper: v, store: store}
}

func (s ScopedReader) Value(path string) string {
	key := toKey(path)

	if s.store != "" {
		scoped := strings.Join([]string{storesKey, s.store, key}, ".")

		if s.viper.IsSet(scoped) {
			return strings.TrimSpace(s.viper.GetString(scoped))
		}
	}

	return strings.TrimSpace(s.viper.GetString(key))
}

func (s Static) Value(path string) string {
	return s[path]
}

// Timeout reads the request timeout in seconds. Missing, malformed or
// non-positive values fall back to DefaultTimeout.
func Timeout(r Reader) time.Duration {
	seconds, err := strconv.ParseFloat(r.Value(TimeoutPath), 64)

	if err != nil || seconds <= 0 {
		return DefaultTimeout
	}

	return time.Duration(seconds * float64(time.Second))
}

// New creates a viper instance bound to the environment and, when the file
// exists, to the config file.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		return v, nil
	}

	absolutePath, err := filepath.Abs(configFile)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(absolutePath); os.IsNotExist(err) {
		return v, nil
	}

	v.SetConfigFile(absolutePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return v, nil
}

func toKey(path string) string {
	return strings.ReplaceAll(strings.Trim(path, "/"), "/", ".")
}
