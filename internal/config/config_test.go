package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyLimitExceedsMaxFileSize(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{MaxFileSize: 100 * 1024 * 1024}}

	// An upload at the ceiling must pass the transport cap so the validator
	// can reject it with the documented message.
	assert.Greater(t, cfg.BodyLimit(), int(cfg.Storage.MaxFileSize))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "dms",
		Password: "secret",
		DBName:   "agentdms_admin",
	}}

	dsn := cfg.GetDatabaseDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=agentdms_admin")
}
