package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := FromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"VALE RACE", "VANPARTS", "MOTOILBR", "LUB EXPRESS"}, cfg.Report.Companies)
	assert.Equal(t, "Resumo", cfg.Report.FullSheet)
	assert.Equal(t, 12, cfg.Report.FullStartRow)
	assert.Equal(t, "Custos por estoque antigo", cfg.Report.CostSheet)
	assert.Equal(t, 2, cfg.Report.CostStartRow)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("REPORT_COMPANIES", " ACME ONE , ,BETA ")
	v.Set("REPORT_WORKERS", 2)
	v.Set("STORAGE_ENABLED", true)
	v.Set("STORAGE_BUCKET", "reports")
	v.Set("STORAGE_DRIVER", "memory")

	cfg := FromViper(v)

	assert.Equal(t, []string{"ACME ONE", "BETA"}, cfg.Report.Companies)
	assert.Equal(t, 2, cfg.Report.Workers)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "reports", cfg.Storage.Bucket)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestFromViperEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("CACHE_ENABLED", "true")

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := FromViper(v)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.True(t, cfg.Cache.Enabled)
}
