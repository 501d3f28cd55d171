package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/store"
)

// ErrInvalidInput marks a request rejected by service-side validation.
// Callers inspect it with errors.Is; the wrapped message says what failed.
var ErrInvalidInput = errors.New("invalid_input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StudentService is the student CRUD surface. Deletes are soft: records
// are deactivated and disappear from reads, never removed.
type StudentService struct {
	Store store.Store
}

func (s *StudentService) Get(ctx context.Context, id int64) (domain.Student, error) {
	return s.Store.Students().GetStudentByID(ctx, id)
}

func (s *StudentService) List(ctx context.Context) ([]domain.Student, error) {
	return s.Store.Students().ListStudents(ctx)
}

func (s *StudentService) ListPaged(ctx context.Context, page domain.PageRequest) (domain.Paged[domain.Student], error) {
	return s.Store.Students().ListStudentsPaged(ctx, page)
}

func (s *StudentService) Create(ctx context.Context, in domain.Student) (domain.Student, error) {
	if err := validateStudent(in); err != nil {
		return domain.Student{}, err
	}

	now := time.Now().UTC()
	in.IsActive = true
	in.CreatedAt = now
	in.UpdatedAt = now
	return s.Store.Students().CreateStudent(ctx, in)
}

func (s *StudentService) Update(ctx context.Context, in domain.Student) error {
	if in.ID <= 0 {
		return invalidInput("missing student id")
	}
	if err := validateStudent(in); err != nil {
		return err
	}

	in.UpdatedAt = time.Now().UTC()
	return s.Store.Students().UpdateStudent(ctx, in)
}

func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	return s.Store.Students().DeactivateStudent(ctx, id)
}

func validateStudent(in domain.Student) error {
	if strings.TrimSpace(in.StudentCode) == "" {
		return invalidInput("student code is required")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return invalidInput("first and last name are required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return invalidInput("email is required")
	}
	return nil
}
