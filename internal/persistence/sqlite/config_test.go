package sqlite

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dsnParams(t *testing.T, dsn string) url.Values {
	t.Helper()
	i := strings.Index(dsn, "?")
	require.GreaterOrEqual(t, i, 0, "dsn %q has no query", dsn)
	values, err := url.ParseQuery(dsn[i+1:])
	require.NoError(t, err)
	return values
}

func TestConfig_DSN(t *testing.T) {
	t.Run("file database", func(t *testing.T) {
		dsn := DefaultConfig("data/booking.db").DSN()
		assert.True(t, strings.HasPrefix(dsn, "data/booking.db?"))

		params := dsnParams(t, dsn)
		assert.Equal(t, "immediate", params.Get("_txlock"))
		assert.ElementsMatch(t, []string{
			"foreign_keys(1)",
			"busy_timeout(5000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
		}, params["_pragma"])
	})

	t.Run("in-memory database skips journal mode", func(t *testing.T) {
		params := dsnParams(t, DefaultConfig(":memory:").DSN())
		for _, pragma := range params["_pragma"] {
			assert.NotContains(t, pragma, "journal_mode")
		}
		assert.Contains(t, params["_pragma"], "foreign_keys(1)")
	})

	t.Run("existing query string is extended", func(t *testing.T) {
		dsn := DefaultConfig("file:booking.db?cache=shared").DSN()
		assert.True(t, strings.HasPrefix(dsn, "file:booking.db?cache=shared&"))
		assert.Equal(t, "shared", dsnParams(t, dsn).Get("cache"))
	})
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig("booking.db").Validate())

	config := DefaultConfig(" ")
	config.BusyTimeout = -time.Second
	config.MaxOpenConns = 0
	config.JournalMode = "sideways"
	config.Synchronous = "sometimes"

	err := config.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"database path cannot be empty",
		"busy timeout cannot be negative",
		"max open connections must be positive",
		`invalid journal mode "sideways"`,
		`invalid synchronous mode "sometimes"`,
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConfig_EnsureDir(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "nested", "dir", "booking.db")

	require.NoError(t, DefaultConfig("file:"+path+"?cache=shared").ensureDir())
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, DefaultConfig(":memory:").ensureDir())
	assert.NoError(t, DefaultConfig("booking.db").ensureDir())
}
