package database

import (
	"git.solsynth.dev/hypernet/conference/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Call{},
	&models.Recording{},
	&models.Transcription{},
	&models.Note{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
