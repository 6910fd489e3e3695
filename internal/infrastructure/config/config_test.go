package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	t.Run("fills every zero field", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)

		assert.Equal(t, "receiving-engine", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 0.05, cfg.Receiving.TolerancePercent)
		assert.Equal(t, []string{"D1", "D2", "D3", "D4"}, cfg.Receiving.Docks)
		assert.Equal(t, 2*time.Hour, cfg.Receiving.DockWindow)
		assert.Equal(t, 15*time.Second, cfg.Telemetry.ExportInterval)
	})

	t.Run("keeps configured values", func(t *testing.T) {
		cfg := &Config{
			Receiving: ReceivingConfig{
				TolerancePercent: 0.1,
				Docks:            []string{"A"},
			},
		}
		applyDefaults(cfg)

		assert.Equal(t, 0.1, cfg.Receiving.TolerancePercent)
		assert.Equal(t, []string{"A"}, cfg.Receiving.Docks)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass validation", func(t *testing.T) {
		require.NoError(t, valid().validate())
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = "oracle"
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects idle connections above the open limit", func(t *testing.T) {
		cfg := valid()
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects tolerance outside the unit interval", func(t *testing.T) {
		cfg := valid()
		cfg.Receiving.TolerancePercent = 1.0
		assert.Error(t, cfg.validate())

		cfg.Receiving.TolerancePercent = -0.01
		assert.Error(t, cfg.validate())
	})

	t.Run("production postgres requires credentials and TLS", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		assert.Error(t, cfg.validate())

		cfg.Database.SSLMode = "require"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production sqlite needs no credentials", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.Database.Driver = "sqlite"
		assert.NoError(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("postgres DSN escapes credentials", func(t *testing.T) {
		d := DatabaseConfig{
			Driver:   "postgres",
			Host:     "db.internal",
			Port:     5432,
			User:     "recv",
			Password: "p@ss:word/1",
			DBName:   "receiving",
			SSLMode:  "require",
		}

		dsn := d.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "db.internal:5432")
		assert.Contains(t, dsn, "sslmode=require")
		assert.NotContains(t, dsn, "p@ss:word/1")
	})

	t.Run("sqlite DSN is the file path", func(t *testing.T) {
		d := DatabaseConfig{Driver: "sqlite", Path: "/tmp/receiving.db"}
		assert.Equal(t, "/tmp/receiving.db", d.DSN())
	})
}
