package sqlite

import (
	"context"

	"github.com/aulasoft/institution/internal/domain"
)

type studentsRepo struct {
	db dbtx
}

const studentColumns = `id, student_code, first_name, last_name, email, phone, enrollment_date, is_active, created_at, updated_at`

func (r *studentsRepo) GetStudentByID(ctx context.Context, id int64) (domain.Student, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = ? AND is_active = 1`, id)
	return scanStudent(row)
}

func (r *studentsRepo) ListStudents(ctx context.Context) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *studentsRepo) ListStudentsPaged(ctx context.Context, page domain.PageRequest) (domain.Paged[domain.Student], error) {
	page = page.Normalize()

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM students WHERE is_active = 1`).Scan(&total); err != nil {
		return domain.Paged[domain.Student]{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE is_active = 1 ORDER BY id LIMIT ? OFFSET ?`,
		page.PageSize, page.Offset(),
	)
	if err != nil {
		return domain.Paged[domain.Student]{}, err
	}
	defer rows.Close()

	var items []domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return domain.Paged[domain.Student]{}, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return domain.Paged[domain.Student]{}, err
	}

	return domain.Paged[domain.Student]{
		Items:    items,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (r *studentsRepo) CreateStudent(ctx context.Context, s domain.Student) (domain.Student, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO students (student_code, first_name, last_name, email, phone, enrollment_date, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.StudentCode, s.FirstName, s.LastName, s.Email, s.Phone,
		s.EnrollmentDate.UTC(), s.IsActive, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.Student{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Student{}, err
	}
	s.ID = id
	return s, nil
}

func (r *studentsRepo) UpdateStudent(ctx context.Context, s domain.Student) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students
		 SET student_code = ?, first_name = ?, last_name = ?, email = ?, phone = ?, enrollment_date = ?, updated_at = ?
		 WHERE id = ? AND is_active = 1`,
		s.StudentCode, s.FirstName, s.LastName, s.Email, s.Phone,
		s.EnrollmentDate.UTC(), s.UpdatedAt.UTC(), s.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *studentsRepo) DeactivateStudent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanStudent(row rowScanner) (domain.Student, error) {
	var s domain.Student
	err := row.Scan(
		&s.ID, &s.StudentCode, &s.FirstName, &s.LastName, &s.Email, &s.Phone,
		&s.EnrollmentDate, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Student{}, mapNotFound(err)
	}
	return s, nil
}
