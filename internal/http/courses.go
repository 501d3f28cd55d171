package http

import (
	"encoding/json"
	"net/http"

	"github.com/aulasoft/institution/internal/domain"
	"github.com/aulasoft/institution/internal/service"
)

// CoursesHandler serves the /api/courses endpoints.
type CoursesHandler struct {
	Courses *service.CourseService
}

type coursePayload struct {
	ID          int64  `json:"id,omitempty"`
	CourseCode  string `json:"courseCode"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Credits     int    `json:"credits"`
	ProfessorID int64  `json:"professorId"`
}

func (p coursePayload) toDomain() domain.Course {
	return domain.Course{
		ID:          p.ID,
		CourseCode:  p.CourseCode,
		Name:        p.Name,
		Description: p.Description,
		Credits:     p.Credits,
		ProfessorID: p.ProfessorID,
	}
}

func courseToPayload(c domain.Course) coursePayload {
	return coursePayload{
		ID:          c.ID,
		CourseCode:  c.CourseCode,
		Name:        c.Name,
		Description: c.Description,
		Credits:     c.Credits,
		ProfessorID: c.ProfessorID,
	}
}

func coursesToPayload(in []domain.Course) []coursePayload {
	out := make([]coursePayload, 0, len(in))
	for _, c := range in {
		out = append(out, courseToPayload(c))
	}
	return out
}

// HandleList serves GET /api/courses.
func (h *CoursesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Courses.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "courses retrieved", coursesToPayload(courses))
}

// HandleGet serves GET /api/courses/{id}.
func (h *CoursesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	course, err := h.Courses.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "course retrieved", courseToPayload(course))
}

// HandleListByProfessor serves GET /api/courses/professor/{id}.
func (h *CoursesHandler) HandleListByProfessor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	courses, err := h.Courses.ListByProfessor(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "courses retrieved", coursesToPayload(courses))
}

// HandleCreate serves POST /api/courses.
func (h *CoursesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req coursePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Courses.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, "course created", courseToPayload(created))
}

// HandleUpdate serves PUT /api/courses/{id}.
func (h *CoursesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req coursePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := req.toDomain()
	in.ID = id
	if err := h.Courses.Update(r.Context(), in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "course updated", nil)
}

// HandleDelete serves DELETE /api/courses/{id}. Soft delete.
func (h *CoursesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Courses.Deactivate(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "course deleted", nil)
}
