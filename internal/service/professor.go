package service

import (
	"context"
	"strings"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/store"
)

type ProfessorService struct {
	Store store.Store
}

func (s *ProfessorService) Get(ctx context.Context, id int64) (domain.Professor, error) {
	return s.Store.Professors().GetProfessorByID(ctx, id)
}

func (s *ProfessorService) List(ctx context.Context) ([]domain.Professor, error) {
	return s.Store.Professors().ListProfessors(ctx)
}

func (s *ProfessorService) Create(ctx context.Context, in domain.Professor) (domain.Professor, error) {
	if err := validateProfessor(in); err != nil {
		return domain.Professor{}, err
	}

	now := time.Now().UTC()
	in.IsActive = true
	in.CreatedAt = now
	in.UpdatedAt = now
	return s.Store.Professors().CreateProfessor(ctx, in)
}

func (s *ProfessorService) Update(ctx context.Context, in domain.Professor) error {
	if in.ID <= 0 {
		return invalidInput("missing professor id")
	}
	if err := validateProfessor(in); err != nil {
		return err
	}

	in.UpdatedAt = time.Now().UTC()
	return s.Store.Professors().UpdateProfessor(ctx, in)
}

func (s *ProfessorService) Deactivate(ctx context.Context, id int64) error {
	return s.Store.Professors().DeactivateProfessor(ctx, id)
}

func validateProfessor(in domain.Professor) error {
	if strings.TrimSpace(in.EmployeeCode) == "" {
		return invalidInput("employee code is required")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return invalidInput("first and last name are required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return invalidInput("email is required")
	}
	return nil
}
