package database

import "farmsphere/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Activity{},
		&models.ChatMessage{},
		&models.CropHealth{},
		&models.PostLike{},
		&models.SavedPost{},
	}
}
