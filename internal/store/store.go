package store

import (
	"context"
	"errors"
	"time"

	"github.com/aulasoft/institution/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Users() Users
	RevokedTokens() RevokedTokens
	RefreshTokens() RefreshTokens
	Students() Students
	Professors() Professors
	Courses() Courses
	Qualifications() Qualifications

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail does a case-insensitive lookup; this is the
	// credential-store entry point for login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user and returns it with the assigned id.
	// Returns ErrAlreadyExists when the email is taken (unique index).
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
}

// RevokedTokens is the revocation registry: access tokens invalidated (by
// jti) before their natural expiration. The backing table is shared by all
// service instances, so a revoke in one process is visible to every other.
type RevokedTokens interface {
	// RevokeToken records a jti as revoked. Idempotent.
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error

	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteExpiredRevokedTokens prunes rows whose original expiration has
	// passed; such tokens are rejected by the lifetime check anyway.
	DeleteExpiredRevokedTokens(ctx context.Context) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record by its SHA-256 fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken marks a single token revoked (by fingerprint).
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeUserRefreshTokens revokes every live token of one user (logout).
	RevokeUserRefreshTokens(ctx context.Context, userID int64) error

	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type Students interface {
	GetStudentByID(ctx context.Context, id int64) (domain.Student, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	ListStudentsPaged(ctx context.Context, page domain.PageRequest) (domain.Paged[domain.Student], error)
	CreateStudent(ctx context.Context, s domain.Student) (domain.Student, error)
	UpdateStudent(ctx context.Context, s domain.Student) error

	// DeactivateStudent soft-deletes: flips is_active off.
	DeactivateStudent(ctx context.Context, id int64) error
}

type Professors interface {
	GetProfessorByID(ctx context.Context, id int64) (domain.Professor, error)
	ListProfessors(ctx context.Context) ([]domain.Professor, error)
	CreateProfessor(ctx context.Context, p domain.Professor) (domain.Professor, error)
	UpdateProfessor(ctx context.Context, p domain.Professor) error
	DeactivateProfessor(ctx context.Context, id int64) error
}

type Courses interface {
	GetCourseByID(ctx context.Context, id int64) (domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	ListCoursesByProfessor(ctx context.Context, professorID int64) ([]domain.Course, error)
	CreateCourse(ctx context.Context, c domain.Course) (domain.Course, error)
	UpdateCourse(ctx context.Context, c domain.Course) error
	DeactivateCourse(ctx context.Context, id int64) error
}

type Qualifications interface {
	GetQualificationByID(ctx context.Context, id int64) (domain.Qualification, error)
	ListQualifications(ctx context.Context) ([]domain.Qualification, error)
	ListQualificationsByStudent(ctx context.Context, studentID int64) ([]domain.Qualification, error)
	ListQualificationsByCourse(ctx context.Context, courseID int64) ([]domain.Qualification, error)
	CreateQualification(ctx context.Context, q domain.Qualification) (domain.Qualification, error)
	UpdateQualification(ctx context.Context, q domain.Qualification) error
	DeleteQualification(ctx context.Context, id int64) error
}
