package service

import (
	"context"
	"errors"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/store"
)

// QualificationService manages grade records. Unlike the other entities,
// qualifications are hard-deleted.
type QualificationService struct {
	Store store.Store
}

func (s *QualificationService) Get(ctx context.Context, id int64) (domain.Qualification, error) {
	return s.Store.Qualifications().GetQualificationByID(ctx, id)
}

func (s *QualificationService) List(ctx context.Context) ([]domain.Qualification, error) {
	return s.Store.Qualifications().ListQualifications(ctx)
}

func (s *QualificationService) ListByStudent(ctx context.Context, studentID int64) ([]domain.Qualification, error) {
	return s.Store.Qualifications().ListQualificationsByStudent(ctx, studentID)
}

func (s *QualificationService) ListByCourse(ctx context.Context, courseID int64) ([]domain.Qualification, error) {
	return s.Store.Qualifications().ListQualificationsByCourse(ctx, courseID)
}

func (s *QualificationService) Create(ctx context.Context, in domain.Qualification) (domain.Qualification, error) {
	if err := s.validateQualification(ctx, in); err != nil {
		return domain.Qualification{}, err
	}

	now := time.Now().UTC()
	in.CreatedAt = now
	in.UpdatedAt = now
	return s.Store.Qualifications().CreateQualification(ctx, in)
}

func (s *QualificationService) Update(ctx context.Context, in domain.Qualification) error {
	if in.ID <= 0 {
		return invalidInput("missing qualification id")
	}
	if err := s.validateQualification(ctx, in); err != nil {
		return err
	}

	in.UpdatedAt = time.Now().UTC()
	return s.Store.Qualifications().UpdateQualification(ctx, in)
}

func (s *QualificationService) Delete(ctx context.Context, id int64) error {
	return s.Store.Qualifications().DeleteQualification(ctx, id)
}

func (s *QualificationService) validateQualification(ctx context.Context, in domain.Qualification) error {
	if in.Grade < 0 || in.Grade > 5 {
		return invalidInput("grade must be between 0 and 5")
	}

	if _, err := s.Store.Students().GetStudentByID(ctx, in.StudentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalidInput("student %d not found", in.StudentID)
		}
		return err
	}
	if _, err := s.Store.Courses().GetCourseByID(ctx, in.CourseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalidInput("course %d not found", in.CourseID)
		}
		return err
	}
	return nil
}
