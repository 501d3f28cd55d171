package domain

import "time"

// Student is a CRUD-layer entity. Deletion is soft: IsActive flips to
// false and the record drops out of listings.
type Student struct {
	ID             int64
	StudentCode    string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	EnrollmentDate time.Time
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
