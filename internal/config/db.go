package config

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the Postgres connection described by the settings.
func InitDB(s DatabaseSettings) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(s.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
