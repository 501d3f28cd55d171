package domain

import "time"

type Professor struct {
	ID             int64
	EmployeeCode   string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Department     string
	Specialization string
	HireDate       time.Time
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p Professor) FullName() string {
	return p.FirstName + " " + p.LastName
}
