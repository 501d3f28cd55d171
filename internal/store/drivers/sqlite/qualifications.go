package sqlite

import (
	"context"
	"database/sql"

	"github.com/aulasoft/institution/internal/domain"
)

type qualificationsRepo struct {
	db dbtx
}

const qualificationColumns = `id, student_id, course_id, grade, qualification_date, comments, created_at, updated_at`

func (r *qualificationsRepo) GetQualificationByID(ctx context.Context, id int64) (domain.Qualification, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+qualificationColumns+` FROM qualifications WHERE id = ?`, id)
	return scanQualification(row)
}

func (r *qualificationsRepo) ListQualifications(ctx context.Context) ([]domain.Qualification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+qualificationColumns+` FROM qualifications ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQualifications(rows)
}

func (r *qualificationsRepo) ListQualificationsByStudent(ctx context.Context, studentID int64) ([]domain.Qualification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+qualificationColumns+` FROM qualifications WHERE student_id = ? ORDER BY id`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQualifications(rows)
}

func (r *qualificationsRepo) ListQualificationsByCourse(ctx context.Context, courseID int64) ([]domain.Qualification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+qualificationColumns+` FROM qualifications WHERE course_id = ? ORDER BY id`,
		courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQualifications(rows)
}

func (r *qualificationsRepo) CreateQualification(ctx context.Context, q domain.Qualification) (domain.Qualification, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO qualifications (student_id, course_id, grade, qualification_date, comments, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.StudentID, q.CourseID, q.Grade, q.QualificationDate.UTC(),
		q.Comments, q.CreatedAt.UTC(), q.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.Qualification{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Qualification{}, err
	}
	q.ID = id
	return q, nil
}

func (r *qualificationsRepo) UpdateQualification(ctx context.Context, q domain.Qualification) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE qualifications
		 SET student_id = ?, course_id = ?, grade = ?, qualification_date = ?, comments = ?, updated_at = ?
		 WHERE id = ?`,
		q.StudentID, q.CourseID, q.Grade, q.QualificationDate.UTC(),
		q.Comments, q.UpdatedAt.UTC(), q.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

// DeleteQualification removes the row outright. Grades have no soft-delete
// flag: a wrong grade is corrected or removed, never hidden.
func (r *qualificationsRepo) DeleteQualification(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM qualifications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func collectQualifications(rows *sql.Rows) ([]domain.Qualification, error) {
	var out []domain.Qualification
	for rows.Next() {
		q, err := scanQualification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func scanQualification(row rowScanner) (domain.Qualification, error) {
	var q domain.Qualification
	err := row.Scan(
		&q.ID, &q.StudentID, &q.CourseID, &q.Grade, &q.QualificationDate,
		&q.Comments, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return domain.Qualification{}, mapNotFound(err)
	}
	return q, nil
}
