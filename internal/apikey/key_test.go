package apikey

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(payload string) string {
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestDecodeSource(t *testing.T) {
	t.Parallel()

	k, err := DecodeSource(encode(`{"host":"legacy.example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://legacy.example.com", k.BaseURL())

	k, err = DecodeSource(encode(`{"host":"legacy.local","insecure":true}`))
	require.NoError(t, err)
	assert.Equal(t, "http://legacy.local", k.BaseURL())
}

func TestDecodeSource_DoubleEncoded(t *testing.T) {
	t.Parallel()

	blob := encode(encode(`{"host":"legacy.example.com"}`))
	k, err := DecodeSource(blob)
	require.NoError(t, err)
	assert.Equal(t, "legacy.example.com", k.Host)
}

func TestDecodeTarget(t *testing.T) {
	t.Parallel()

	k, err := DecodeTarget(encode(`{"host":"import.example.com","token":"secret"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://import.example.com", k.BaseURL())
	assert.Equal(t, "secret", k.Token)
}

func TestDecode_Failures(t *testing.T) {
	t.Parallel()

	tests := map[string]func() error{
		"not base64": func() error {
			_, err := DecodeSource("!!! not base64 !!!")
			return err
		},
		"base64 of garbage": func() error {
			_, err := DecodeSource(encode("garbage"))
			return err
		},
		"triple encoded": func() error {
			_, err := DecodeSource(encode(encode(encode(`{"host":"h"}`))))
			return err
		},
		"source missing host": func() error {
			_, err := DecodeSource(encode(`{"insecure":true}`))
			return err
		},
		"target missing token": func() error {
			_, err := DecodeTarget(encode(`{"host":"h"}`))
			return err
		},
	}
	for name, run := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, run(), ErrInvalidKey)
		})
	}
}
