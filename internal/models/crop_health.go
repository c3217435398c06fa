package models

import (
	"time"

	"gorm.io/datatypes"
)

// Prediction is one ranked classifier label.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// CropHealth is a stored disease diagnosis for a user's crop image.
type CropHealth struct {
	Base
	ID        string                          `gorm:"column:id;not null" json:"id"`
	UserID    string                          `gorm:"column:user_id;not null" json:"userId"`
	ImageURL  *string                         `gorm:"column:image_url" json:"imageUrl"`
	Results   datatypes.JSONSlice[Prediction] `json:"results"`
	Location  *string                         `json:"location"`
	Timestamp time.Time                       `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time                       `json:"createdAt"`
}

// TableName overrides the default table name.
func (CropHealth) TableName() string { return "crop_health" }

// Document projects the diagnosis onto its wire document. Results become a
// list of sub-documents.
func (d *CropHealth) Document() map[string]any {
	results := make([]map[string]any, 0, len(d.Results))
	for _, r := range d.Results {
		results = append(results, map[string]any{
			"label":      r.Label,
			"confidence": r.Confidence,
		})
	}
	return map[string]any{
		"_id":       d.RowID,
		"id":        d.ID,
		"userId":    d.UserID,
		"imageUrl":  d.ImageURL,
		"results":   results,
		"location":  d.Location,
		"timestamp": d.Timestamp,
		"createdAt": d.CreatedAt,
	}
}
