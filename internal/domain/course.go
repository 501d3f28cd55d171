package domain

import "time"

type Course struct {
	ID          int64
	CourseCode  string
	Name        string
	Description string
	Credits     int
	ProfessorID int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
