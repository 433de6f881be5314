package domain

import (
	"time"
)

// Event is a calendar entry owned by one user.
type Event struct {
	ID      int64  `datastore:"-" json:"id"`
	OwnerID string `datastore:"-" json:"owner_id"`

	Title       string     `datastore:"title" json:"title"`
	Description string     `datastore:"description,noindex" json:"description"`
	AllDay      bool       `datastore:"all_day" json:"all_day"`
	Date        string     `datastore:"date" json:"date"` // calendar date, DateLayout
	StartDate   *time.Time `datastore:"start_date" json:"start_date"`
	EndDate     *time.Time `datastore:"end_date" json:"end_date"`
	CreatedAt   time.Time  `datastore:"created_at" json:"created_at"`
}
