package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/service"
)

// StudentsHandler serves the /api/students endpoints.
type StudentsHandler struct {
	Students *service.StudentService
}

type studentPayload struct {
	ID             int64     `json:"id,omitempty"`
	StudentCode    string    `json:"studentCode"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	EnrollmentDate time.Time `json:"enrollmentDate"`
}

func (p studentPayload) toDomain() domain.Student {
	return domain.Student{
		ID:             p.ID,
		StudentCode:    p.StudentCode,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		EnrollmentDate: p.EnrollmentDate,
	}
}

func studentToPayload(s domain.Student) studentPayload {
	return studentPayload{
		ID:             s.ID,
		StudentCode:    s.StudentCode,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		EnrollmentDate: s.EnrollmentDate,
	}
}

func studentsToPayload(in []domain.Student) []studentPayload {
	out := make([]studentPayload, 0, len(in))
	for _, s := range in {
		out = append(out, studentToPayload(s))
	}
	return out
}

// pagedPayload is the wire shape for paginated listings.
type pagedPayload[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// pageRequestFromQuery reads ?page= and ?pageSize=; out-of-range values are
// clamped downstream.
func pageRequestFromQuery(r *http.Request) domain.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return domain.PageRequest{Page: page, PageSize: size}
}

// HandleList serves GET /api/students.
func (h *StudentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	students, err := h.Students.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "students retrieved", studentsToPayload(students))
}

// HandleListPaged serves GET /api/students/paged.
func (h *StudentsHandler) HandleListPaged(w http.ResponseWriter, r *http.Request) {
	page, err := h.Students.ListPaged(r.Context(), pageRequestFromQuery(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "students retrieved", pagedPayload[studentPayload]{
		Items:    studentsToPayload(page.Items),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// HandleGet serves GET /api/students/{id}.
func (h *StudentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	student, err := h.Students.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "student retrieved", studentToPayload(student))
}

// HandleCreate serves POST /api/students.
func (h *StudentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req studentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Students.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, "student created", studentToPayload(created))
}

// HandleUpdate serves PUT /api/students/{id}.
func (h *StudentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req studentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := req.toDomain()
	in.ID = id
	if err := h.Students.Update(r.Context(), in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "student updated", nil)
}

// HandleDelete serves DELETE /api/students/{id}. Soft delete.
func (h *StudentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Students.Deactivate(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "student deleted", nil)
}
