package database

import (
	"github.com/skilllink/skilllink/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Profile{},
	&models.Post{},
	&models.Comment{},
	&models.Event{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.Like{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
