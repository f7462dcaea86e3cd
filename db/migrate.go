package db

import (
	"fmt"

	"LabelCMS/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the releases, tracks, news and users tables.
func AutoMigrate(gdb *gorm.DB) error {
	if gdb == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := gdb.AutoMigrate(&model.User{}, &model.Release{}, &model.Track{}, &model.News{}); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	return nil
}
