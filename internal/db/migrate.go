package db

import (
	"github.com/Stanislas-Motte/COT-Tool/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.CotReport{},
		&models.PriceBar{},
		&models.PriceMapping{},
		&models.PriceFetchAudit{},
	)
}
