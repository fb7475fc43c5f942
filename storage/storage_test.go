package storage_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malusev998/fixerio-import/storage"
)

func TestConvertToProvidersFromStringSlice(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	values := []struct {
		value    []string
		expected interface{}
		err      error
	}{
		{[]string{"mysql", "MongoDB"}, []storage.Provider{storage.MySQL, storage.MongoDB}, nil},
		{[]string{"not-valid-value"}, []storage.Provider(nil), errors.New("value not-valid-value is not valid Provider")},
	}

	for _, value := range values {
		providers, err := storage.ConvertToProvidersFromStringSlice(value.value)
		assert.Equal(value.expected, providers)
		assert.Equal(value.err, err)
	}
}

func TestNewStorage_UnknownProvider(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	st, err := storage.NewStorage(storage.Provider("redis"), nil)
	assert.Nil(st)
	assert.True(errors.Is(err, storage.ErrStorageNotFound))

	st, err = storage.NewStorage(storage.MySQL, storage.MongoDBConfig{})
	assert.Nil(st)
	assert.True(errors.Is(err, storage.ErrStorageNotFound))
}
