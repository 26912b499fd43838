package model

import (
	"time"
)

// Movie represents a catalogued movie with the user's rating and review
type Movie struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"uniqueIndex;size:250;not null"`
	Year        int     `gorm:"not null"`
	Description string  `gorm:"type:text;not null"`
	Rating      float64 `gorm:"default:0"`
	Ranking     int     `gorm:"default:0"`
	Review      string  `gorm:"size:250;default:''"`
	ImgURL      string  `gorm:"column:img_url;size:500;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for Movie
func (Movie) TableName() string {
	return "movies"
}
