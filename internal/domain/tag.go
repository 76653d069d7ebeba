package domain

import "time"

// Tag represents a content tag. Name uniqueness is enforced at resolution
// time, not by the storage schema: two concurrent resolutions of the same new
// name may both insert. This is an accepted race.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
