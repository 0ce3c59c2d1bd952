package models

import "time"

// Course is owned by a single teacher and holds ordered modules
type Course struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   int64     `json:"ownerId" db:"owner_id"`
	SubjectID int64     `json:"subjectId" db:"subject_id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Overview  string    `json:"overview" db:"overview"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Subject *Subject `json:"subject,omitempty"`
	Owner   *User    `json:"owner,omitempty"`
}

// Module is an ordered section of a course
type Module struct {
	ID          int64  `json:"id" db:"id"`
	CourseID    int64  `json:"courseId" db:"course_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Order       int    `json:"order" db:"order"`
}
