package models

import "time"

// Blog is a published story surfaced on the marketplace front page.
type Blog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;type:varchar(200)"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Author    string    `json:"author"`
	Date      string    `json:"date"`
	Cover     string    `json:"cover"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
