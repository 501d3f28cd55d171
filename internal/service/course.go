package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/store"
)

type CourseService struct {
	Store store.Store
}

func (s *CourseService) Get(ctx context.Context, id int64) (domain.Course, error) {
	return s.Store.Courses().GetCourseByID(ctx, id)
}

func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.Store.Courses().ListCourses(ctx)
}

func (s *CourseService) ListByProfessor(ctx context.Context, professorID int64) ([]domain.Course, error) {
	return s.Store.Courses().ListCoursesByProfessor(ctx, professorID)
}

func (s *CourseService) Create(ctx context.Context, in domain.Course) (domain.Course, error) {
	if err := s.validateCourse(ctx, in); err != nil {
		return domain.Course{}, err
	}

	now := time.Now().UTC()
	in.IsActive = true
	in.CreatedAt = now
	in.UpdatedAt = now
	return s.Store.Courses().CreateCourse(ctx, in)
}

func (s *CourseService) Update(ctx context.Context, in domain.Course) error {
	if in.ID <= 0 {
		return invalidInput("missing course id")
	}
	if err := s.validateCourse(ctx, in); err != nil {
		return err
	}

	in.UpdatedAt = time.Now().UTC()
	return s.Store.Courses().UpdateCourse(ctx, in)
}

func (s *CourseService) Deactivate(ctx context.Context, id int64) error {
	return s.Store.Courses().DeactivateCourse(ctx, id)
}

func (s *CourseService) validateCourse(ctx context.Context, in domain.Course) error {
	if strings.TrimSpace(in.CourseCode) == "" {
		return invalidInput("course code is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return invalidInput("course name is required")
	}
	if in.Credits <= 0 {
		return invalidInput("credits must be positive")
	}

	// The professor must exist and be active.
	if _, err := s.Store.Professors().GetProfessorByID(ctx, in.ProfessorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalidInput("professor %d not found", in.ProfessorID)
		}
		return err
	}
	return nil
}
