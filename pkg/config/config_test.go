package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StorePostgres, cfg.Ledger.Store)
	assert.Equal(t, 5*time.Second, cfg.Ledger.TxTimeout)
	assert.Equal(t, "Reporte diario de stock", cfg.Ledger.PDFTitle)
	assert.Empty(t, cfg.Ledger.CatalogFile)
	assert.Empty(t, cfg.Ledger.CatalogCharset)
	assert.Equal(t, "./docs/swagger.json", cfg.HTTP.DocsFile)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres://postgres:@localhost:5432/dpr?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_STORE", "Memory")
	v.Set("LEDGER_TX_TIMEOUT", "1500ms")
	v.Set("DB_PORT", "6543")
	v.Set("DB_PASSWORD", "p@ss/word")
	v.Set("DATABASE_URL", "")
	v.Set("LEDGER_CATALOG_CHARSET", "iso-8859-1")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Ledger.Store)
	assert.Equal(t, 1500*time.Millisecond, cfg.Ledger.TxTimeout)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "iso-8859-1", cfg.Ledger.CatalogCharset)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%2Fword", "la contraseña debe ir codificada en el DSN")
}

func TestFromViper_Invalidos(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_TX_TIMEOUT", "cinco")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("LEDGER_STORE", "redis")
	_, err = fromViper(v)
	assert.Error(t, err)
}
