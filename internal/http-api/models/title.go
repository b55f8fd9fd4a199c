package models

import "time"

type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null"`
	Year        int       `json:"year" gorm:"not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	CategoryID  *int64    `json:"-" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Rating is the average review score, recomputed on every read.
	// Nil when the title has no reviews. Read-only, never persisted.
	Rating *float64 `json:"rating" gorm:"->;-:migration"`

	// associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
