package models

import "time"

// Review is an append-only rating of a course
type Review struct {
	ID       int64     `json:"id" db:"id"`
	CourseID int64     `json:"courseId" db:"course_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	Rating   int       `json:"rating" db:"rating"`
	Comment  string    `json:"comment" db:"comment"`
	PubDate  time.Time `json:"pubDate" db:"pub_date"`

	UserName string `json:"userName,omitempty"`
}

// Review bounds
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 2000
)

// Enrollment links a student to a course
type Enrollment struct {
	CourseID   int64     `json:"courseId" db:"course_id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	EnrolledAt time.Time `json:"enrolledAt" db:"enrolled_at"`
}

// Cluster is a group of users with similar ratings
type Cluster struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Users []int64 `json:"users"`
}
