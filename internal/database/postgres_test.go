package database

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestGetConfig_DefaultsAndDSN(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("database.host", "db.internal")
	viper.Set("database.password", "s3cret")

	cfg := GetConfig()
	assert.Equal(t, "5432", cfg.Port)
	assert.Equal(t, "mock_exam_booking", cfg.Name)
	assert.Equal(t, "host=db.internal port=5432 user=postgres password=s3cret dbname=mock_exam_booking sslmode=disable", cfg.DSN())
}

func TestMigrationsEmbedded(t *testing.T) {
	data, err := migrations.ReadFile("migrations/00001_dead_letters.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS dead_letters")
	assert.Contains(t, string(data), "-- +goose Down")
}
