package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/service"
)

// ProfessorsHandler serves the /api/professors endpoints.
type ProfessorsHandler struct {
	Professors *service.ProfessorService
}

type professorPayload struct {
	ID             int64     `json:"id,omitempty"`
	EmployeeCode   string    `json:"employeeCode"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Department     string    `json:"department"`
	Specialization string    `json:"specialization"`
	HireDate       time.Time `json:"hireDate"`
}

func (p professorPayload) toDomain() domain.Professor {
	return domain.Professor{
		ID:             p.ID,
		EmployeeCode:   p.EmployeeCode,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		Department:     p.Department,
		Specialization: p.Specialization,
		HireDate:       p.HireDate,
	}
}

func professorToPayload(p domain.Professor) professorPayload {
	return professorPayload{
		ID:             p.ID,
		EmployeeCode:   p.EmployeeCode,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		Department:     p.Department,
		Specialization: p.Specialization,
		HireDate:       p.HireDate,
	}
}

// HandleList serves GET /api/professors.
func (h *ProfessorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	professors, err := h.Professors.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]professorPayload, 0, len(professors))
	for _, p := range professors {
		out = append(out, professorToPayload(p))
	}
	respondOK(w, http.StatusOK, "professors retrieved", out)
}

// HandleGet serves GET /api/professors/{id}.
func (h *ProfessorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	professor, err := h.Professors.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "professor retrieved", professorToPayload(professor))
}

// HandleCreate serves POST /api/professors.
func (h *ProfessorsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req professorPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Professors.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, "professor created", professorToPayload(created))
}

// HandleUpdate serves PUT /api/professors/{id}.
func (h *ProfessorsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req professorPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := req.toDomain()
	in.ID = id
	if err := h.Professors.Update(r.Context(), in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "professor updated", nil)
}

// HandleDelete serves DELETE /api/professors/{id}. Soft delete.
func (h *ProfessorsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Professors.Deactivate(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "professor deleted", nil)
}
