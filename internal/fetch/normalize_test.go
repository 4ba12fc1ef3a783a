package fetch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURLLowercasesSchemeAndHost(t *testing.T) {
	got, err := NormalizeURL("HTTPS://Example.COM/Path")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/Path", got)
}

func TestNormalizeURLStripsDefaultPort(t *testing.T) {
	got, err := NormalizeURL("http://example.com:80/path")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/path", got)

	got, err = NormalizeURL("https://example.com:443/path")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/path", got)
}

func TestNormalizeURLStripsFragment(t *testing.T) {
	got, err := NormalizeURL("https://example.com/path#section")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/path", got)
}

func TestNormalizeURLSortsQueryParams(t *testing.T) {
	a, err := NormalizeURL("https://example.com/?b=2&a=1")
	require.NoError(t, err)
	c, err := NormalizeURL("https://example.com/?a=1&b=2")
	require.NoError(t, err)
	require.Equal(t, a, c)
}

func TestNormalizeURLRejectsMissingSchemeOrHost(t *testing.T) {
	_, err := NormalizeURL("/just/a/path")
	require.Error(t, err)
}

func TestRegistrableDomain(t *testing.T) {
	d, err := RegistrableDomain("https://www.example.co.uk/path")
	require.NoError(t, err)
	require.Equal(t, "example.co.uk", d)
}
