package model

import "time"

// Teacher is a member of the roster. Name is unique by convention only.
type Teacher struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name" validate:"required"`
	Classes   string    `json:"classes"`
	Subjects  string    `json:"subjects"`
	CreatedAt time.Time `json:"createdAt"`
}
