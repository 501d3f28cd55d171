package domain

import "time"

// PassingGrade is the minimum grade considered a pass (0-5 scale).
const PassingGrade = 3.0

type Qualification struct {
	ID                int64
	StudentID         int64
	CourseID          int64
	Grade             float64 // 0 to 5
	QualificationDate time.Time
	Comments          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (q Qualification) IsPassing() bool {
	return q.Grade >= PassingGrade
}
