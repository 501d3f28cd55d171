package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/service"
)

// QualificationsHandler serves the /api/qualifications endpoints.
type QualificationsHandler struct {
	Qualifications *service.QualificationService
}

type qualificationPayload struct {
	ID                int64     `json:"id,omitempty"`
	StudentID         int64     `json:"studentId"`
	CourseID          int64     `json:"courseId"`
	Grade             float64   `json:"grade"`
	QualificationDate time.Time `json:"qualificationDate"`
	Comments          string    `json:"comments"`
	IsPassing         bool      `json:"isPassing"`
}

func (p qualificationPayload) toDomain() domain.Qualification {
	return domain.Qualification{
		ID:                p.ID,
		StudentID:         p.StudentID,
		CourseID:          p.CourseID,
		Grade:             p.Grade,
		QualificationDate: p.QualificationDate,
		Comments:          p.Comments,
	}
}

func qualificationToPayload(q domain.Qualification) qualificationPayload {
	return qualificationPayload{
		ID:                q.ID,
		StudentID:         q.StudentID,
		CourseID:          q.CourseID,
		Grade:             q.Grade,
		QualificationDate: q.QualificationDate,
		Comments:          q.Comments,
		IsPassing:         q.IsPassing(),
	}
}

func qualificationsToPayload(in []domain.Qualification) []qualificationPayload {
	out := make([]qualificationPayload, 0, len(in))
	for _, q := range in {
		out = append(out, qualificationToPayload(q))
	}
	return out
}

// HandleList serves GET /api/qualifications.
func (h *QualificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	quals, err := h.Qualifications.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "qualifications retrieved", qualificationsToPayload(quals))
}

// HandleGet serves GET /api/qualifications/{id}.
func (h *QualificationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	qual, err := h.Qualifications.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "qualification retrieved", qualificationToPayload(qual))
}

// HandleListByStudent serves GET /api/qualifications/student/{id}.
func (h *QualificationsHandler) HandleListByStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	quals, err := h.Qualifications.ListByStudent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "qualifications retrieved", qualificationsToPayload(quals))
}

// HandleListByCourse serves GET /api/qualifications/course/{id}.
func (h *QualificationsHandler) HandleListByCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	quals, err := h.Qualifications.ListByCourse(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "qualifications retrieved", qualificationsToPayload(quals))
}

// HandleCreate serves POST /api/qualifications.
func (h *QualificationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req qualificationPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Qualifications.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, "qualification created", qualificationToPayload(created))
}

// HandleUpdate serves PUT /api/qualifications/{id}.
func (h *QualificationsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req qualificationPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := req.toDomain()
	in.ID = id
	if err := h.Qualifications.Update(r.Context(), in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "qualification updated", nil)
}

// HandleDelete serves DELETE /api/qualifications/{id}. Hard delete.
func (h *QualificationsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Qualifications.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "qualification deleted", nil)
}
