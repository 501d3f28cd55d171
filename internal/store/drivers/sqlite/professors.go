package sqlite

import (
	"context"

	"github.com/aulasoft/institution/internal/domain"
)

type professorsRepo struct {
	db dbtx
}

const professorColumns = `id, employee_code, first_name, last_name, email, phone, department, specialization, hire_date, is_active, created_at, updated_at`

func (r *professorsRepo) GetProfessorByID(ctx context.Context, id int64) (domain.Professor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+professorColumns+` FROM professors WHERE id = ? AND is_active = 1`, id)
	return scanProfessor(row)
}

func (r *professorsRepo) ListProfessors(ctx context.Context) ([]domain.Professor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+professorColumns+` FROM professors WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Professor
	for rows.Next() {
		p, err := scanProfessor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *professorsRepo) CreateProfessor(ctx context.Context, p domain.Professor) (domain.Professor, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO professors (employee_code, first_name, last_name, email, phone, department, specialization, hire_date, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.EmployeeCode, p.FirstName, p.LastName, p.Email, p.Phone,
		p.Department, p.Specialization, p.HireDate.UTC(), p.IsActive,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.Professor{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Professor{}, err
	}
	p.ID = id
	return p, nil
}

func (r *professorsRepo) UpdateProfessor(ctx context.Context, p domain.Professor) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE professors
		 SET employee_code = ?, first_name = ?, last_name = ?, email = ?, phone = ?, department = ?, specialization = ?, hire_date = ?, updated_at = ?
		 WHERE id = ? AND is_active = 1`,
		p.EmployeeCode, p.FirstName, p.LastName, p.Email, p.Phone,
		p.Department, p.Specialization, p.HireDate.UTC(), p.UpdatedAt.UTC(), p.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *professorsRepo) DeactivateProfessor(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE professors SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanProfessor(row rowScanner) (domain.Professor, error) {
	var p domain.Professor
	err := row.Scan(
		&p.ID, &p.EmployeeCode, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.Department, &p.Specialization, &p.HireDate, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Professor{}, mapNotFound(err)
	}
	return p, nil
}
