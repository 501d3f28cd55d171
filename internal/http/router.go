package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aulasoft/institution/internal/service"
	"github.com/aulasoft/institution/internal/store"
	"github.com/aulasoft/institution/pkg/httpx"
	"github.com/aulasoft/institution/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers. Each route declares
// its role set inline; roles not listed are rejected before the handler
// runs.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store                store.Store
	AuthService          *service.AuthService
	TokenService         *service.TokenService
	StudentService       *service.StudentService
	ProfessorService     *service.ProfessorService
	CourseService        *service.CourseService
	QualificationService *service.QualificationService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerStudents()
	r.registerProfessors()
	r.registerCourses()
	r.registerQualifications()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn validates the bearer token, including the revocation registry check.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.TokenService)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Auth: r.AuthService, Tokens: r.TokenService}

	// Credential endpoint: strict per-IP limit against brute force.
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)

	// Logout skips authn on purpose: a second logout with an
	// already-revoked token must still be acknowledged.
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Refresh is unauthenticated: the refresh token itself is the proof.
	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerStudents() {
	h := &StudentsHandler{Students: r.StudentService}

	r.Mux.Handle("GET /api/students",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator", "Professor"),
		),
	)
	r.Mux.Handle("GET /api/students/paged",
		httpx.Chain(http.HandlerFunc(h.HandleListPaged),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator", "Professor"),
		),
	)
	r.Mux.Handle("GET /api/students/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authn(),
		),
	)
	r.Mux.Handle("POST /api/students",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)
	r.Mux.Handle("PUT /api/students/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)
	r.Mux.Handle("DELETE /api/students/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authn(),
			httpx.RequireAnyRole("Admin"),
		),
	)
}

func (r *Router) registerProfessors() {
	h := &ProfessorsHandler{Professors: r.ProfessorService}

	r.Mux.Handle("GET /api/professors",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(),
		),
	)
	r.Mux.Handle("GET /api/professors/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authn(),
		),
	)
	r.Mux.Handle("POST /api/professors",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)
	r.Mux.Handle("PUT /api/professors/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)
	r.Mux.Handle("DELETE /api/professors/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authn(),
			httpx.RequireAnyRole("Admin"),
		),
	)
}

func (r *Router) registerCourses() {
	h := &CoursesHandler{Courses: r.CourseService}

	r.Mux.Handle("GET /api/courses",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(),
		),
	)
	r.Mux.Handle("GET /api/courses/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authn(),
		),
	)
	r.Mux.Handle("GET /api/courses/professor/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleListByProfessor),
			r.authn(),
		),
	)
	r.Mux.Handle("POST /api/courses",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)
	r.Mux.Handle("PUT /api/courses/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)
	r.Mux.Handle("DELETE /api/courses/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authn(),
			httpx.RequireAnyRole("Admin"),
		),
	)
}

func (r *Router) registerQualifications() {
	h := &QualificationsHandler{Qualifications: r.QualificationService}

	r.Mux.Handle("GET /api/qualifications",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)
	r.Mux.Handle("GET /api/qualifications/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authn(),
		),
	)
	r.Mux.Handle("GET /api/qualifications/student/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleListByStudent),
			r.authn(),
		),
	)
	r.Mux.Handle("GET /api/qualifications/course/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleListByCourse),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator", "Professor"),
		),
	)
	r.Mux.Handle("POST /api/qualifications",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator", "Professor"),
		),
	)
	r.Mux.Handle("PUT /api/qualifications/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator", "Professor"),
		),
	)
	r.Mux.Handle("DELETE /api/qualifications/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authn(),
			httpx.RequireAnyRole("Admin", "Coordinator"),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
