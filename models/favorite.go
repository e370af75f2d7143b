package models

import "time"

// A meal the owner marked as favorite. Title/thumbnail are snapshotted so
// the favorites view renders without calling TheMealDB.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Owner     string    `gorm:"size:255;not null;uniqueIndex:idx_owner_meal" json:"owner"`
	MealID    string    `gorm:"size:64;not null;uniqueIndex:idx_owner_meal" json:"meal_id"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	Category  string    `json:"category"`
	Area      string    `json:"area"`
	CreatedAt time.Time `json:"created_at"`
}
