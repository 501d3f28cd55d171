package sqlite

import (
	"context"
	"database/sql"

	"github.com/aulasoft/institution/internal/domain"
)

type coursesRepo struct {
	db dbtx
}

const courseColumns = `id, course_code, name, description, credits, professor_id, is_active, created_at, updated_at`

func (r *coursesRepo) GetCourseByID(ctx context.Context, id int64) (domain.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ? AND is_active = 1`, id)
	return scanCourse(row)
}

func (r *coursesRepo) ListCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

func (r *coursesRepo) ListCoursesByProfessor(ctx context.Context, professorID int64) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE professor_id = ? AND is_active = 1 ORDER BY id`,
		professorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

func (r *coursesRepo) CreateCourse(ctx context.Context, c domain.Course) (domain.Course, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (course_code, name, description, credits, professor_id, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CourseCode, c.Name, c.Description, c.Credits, c.ProfessorID,
		c.IsActive, c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.Course{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Course{}, err
	}
	c.ID = id
	return c, nil
}

func (r *coursesRepo) UpdateCourse(ctx context.Context, c domain.Course) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE courses
		 SET course_code = ?, name = ?, description = ?, credits = ?, professor_id = ?, updated_at = ?
		 WHERE id = ? AND is_active = 1`,
		c.CourseCode, c.Name, c.Description, c.Credits, c.ProfessorID,
		c.UpdatedAt.UTC(), c.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *coursesRepo) DeactivateCourse(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE courses SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func collectCourses(rows *sql.Rows) ([]domain.Course, error) {
	var out []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCourse(row rowScanner) (domain.Course, error) {
	var c domain.Course
	err := row.Scan(
		&c.ID, &c.CourseCode, &c.Name, &c.Description, &c.Credits,
		&c.ProfessorID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Course{}, mapNotFound(err)
	}
	return c, nil
}
