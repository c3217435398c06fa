package models

import "time"

// Activity is a farm log entry such as sowing, irrigation or harvest.
type Activity struct {
	Base
	ID        string    `gorm:"column:id;not null" json:"id"`
	UserID    string    `gorm:"column:user_id;not null" json:"userId"`
	Type      string    `gorm:"not null;default:''" json:"type"`
	Crop      string    `gorm:"not null;default:''" json:"crop"`
	Notes     string    `gorm:"type:text;not null;default:''" json:"notes"`
	Date      time.Time `gorm:"not null" json:"date"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the default table name.
func (Activity) TableName() string { return "activities" }

func (a *Activity) Document() map[string]any {
	return map[string]any{
		"_id":       a.RowID,
		"id":        a.ID,
		"userId":    a.UserID,
		"type":      a.Type,
		"crop":      a.Crop,
		"notes":     a.Notes,
		"date":      a.Date,
		"timestamp": a.Timestamp,
		"createdAt": a.CreatedAt,
	}
}
