package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aulasoft/institution/internal/service"
	"github.com/aulasoft/institution/internal/store/drivers/sqlite"
	"github.com/aulasoft/institution/pkg/cryptox"
	"github.com/aulasoft/institution/pkg/jwtx"
	"github.com/aulasoft/institution/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "0123456789abcdef0123456789abcdef"
	adminEmail    = "admin@educational.com"
	adminPassword = "Admin123!"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test-pepper")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()

	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, "institution-api", []string{"institution-client"})
	require.NoError(t, err)

	tokens := &service.TokenService{
		Signer:     signer,
		Verifier:   verifier,
		Store:      st,
		Issuer:     "institution-api",
		Audience:   []string{"institution-client"},
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	auth := &service.AuthService{Store: st, Tokens: tokens}
	require.NoError(t, auth.EnsureAdmin(t.Context(), adminEmail, adminPassword))

	logger := slogx.New(slogx.Config{Service: "institution-test"})
	router := NewRouter("test", st, logger)
	router.AuthService = auth
	router.TokenService = tokens
	router.StudentService = &service.StudentService{Store: st}
	router.ProfessorService = &service.ProfessorService{Store: st}
	router.CourseService = &service.CourseService{Store: st}
	router.QualificationService = &service.QualificationService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func login(t *testing.T, srv *httptest.Server, email, password string) authResponse {
	t.Helper()

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", loginRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	var data authResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data
}

func registerUser(t *testing.T, srv *httptest.Server, adminToken, email, role string) authResponse {
	t.Helper()

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", adminToken, registerRequest{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "S3cure!pass",
		Role:      role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var data authResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("admin seeded and can log in", func(t *testing.T) {
		data := login(t, srv, adminEmail, adminPassword)
		require.Equal(t, "Admin", data.Role)
		require.NotEmpty(t, data.RefreshToken)
		require.Positive(t, data.UserID)
	})

	t.Run("wrong password gets 401", func(t *testing.T) {
		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", loginRequest{
			Email:    adminEmail,
			Password: "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.False(t, env.Success)
	})

	t.Run("missing fields get 400", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", loginRequest{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/students", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/students", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleEnforcement(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, adminEmail, adminPassword)
	student := registerUser(t, srv, admin.Token, "student@educational.com", "Student")

	t.Run("student role cannot list students", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/students", student.Token, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("student role cannot register accounts", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", student.Token, registerRequest{
			FirstName: "X", LastName: "Y", Email: "x@educational.com", Password: "pw123456!", Role: "Student",
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin can create and student can read by id", func(t *testing.T) {
		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/students", admin.Token, studentPayload{
			StudentCode:    "S-001",
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          "ada@educational.com",
			EnrollmentDate: time.Now(),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created studentPayload
		require.NoError(t, json.Unmarshal(env.Data, &created))
		require.Positive(t, created.ID)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/students/"+itoa(created.ID), student.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("only admin deletes students", func(t *testing.T) {
		coordinator := registerUser(t, srv, admin.Token, "coord@educational.com", "Coordinator")

		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/students", coordinator.Token, studentPayload{
			StudentCode:    "S-002",
			FirstName:      "Grace",
			LastName:       "Hopper",
			Email:          "grace.h@educational.com",
			EnrollmentDate: time.Now(),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var created studentPayload
		require.NoError(t, json.Unmarshal(env.Data, &created))

		resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/students/"+itoa(created.ID), coordinator.Token, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/students/"+itoa(created.ID), admin.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/students/"+itoa(created.ID), admin.Token, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, adminEmail, adminPassword)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/students", admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/logout", admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	// The same token is dead everywhere now.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/students", admin.Token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A second logout with the revoked token still acknowledges.
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/api/auth/logout", admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)

	// And so is its refresh token.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/refresh", "", refreshRequest{
		RefreshToken: admin.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshEndpointRotates(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, adminEmail, adminPassword)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/auth/refresh", "", refreshRequest{
		RefreshToken: admin.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var next authResponse
	require.NoError(t, json.Unmarshal(env.Data, &next))
	require.NotEmpty(t, next.Token)
	require.NotEqual(t, admin.RefreshToken, next.RefreshToken)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	// The consumed refresh token no longer works.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/auth/refresh", "", refreshRequest{
		RefreshToken: admin.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The new access token is valid.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/students", next.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQualificationFlow(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, adminEmail, adminPassword)

	_, env := doJSON(t, http.MethodPost, srv.URL+"/api/professors", admin.Token, professorPayload{
		EmployeeCode: "P-001", FirstName: "Alan", LastName: "Turing",
		Email: "alan@educational.com", Department: "CS", HireDate: time.Now(),
	})
	var prof professorPayload
	require.NoError(t, json.Unmarshal(env.Data, &prof))

	_, env = doJSON(t, http.MethodPost, srv.URL+"/api/courses", admin.Token, coursePayload{
		CourseCode: "CS-101", Name: "Programming", Credits: 3, ProfessorID: prof.ID,
	})
	var course coursePayload
	require.NoError(t, json.Unmarshal(env.Data, &course))

	_, env = doJSON(t, http.MethodPost, srv.URL+"/api/students", admin.Token, studentPayload{
		StudentCode: "S-001", FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@educational.com", EnrollmentDate: time.Now(),
	})
	var student studentPayload
	require.NoError(t, json.Unmarshal(env.Data, &student))

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/qualifications", admin.Token, qualificationPayload{
		StudentID: student.ID, CourseID: course.ID, Grade: 4.2, QualificationDate: time.Now(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var qual qualificationPayload
	require.NoError(t, json.Unmarshal(env.Data, &qual))
	require.True(t, qual.IsPassing)

	t.Run("grade out of range rejected", func(t *testing.T) {
		resp, env := doJSON(t, http.MethodPost, srv.URL+"/api/qualifications", admin.Token, qualificationPayload{
			StudentID: student.ID, CourseID: course.ID, Grade: 6, QualificationDate: time.Now(),
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.False(t, env.Success)
		require.NotEmpty(t, env.Errors)
	})

	t.Run("listings", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/qualifications/student/"+itoa(student.ID), admin.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/courses/professor/"+itoa(prof.ID), admin.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestPagedStudents(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, adminEmail, adminPassword)

	for i := range 15 {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/students", admin.Token, studentPayload{
			StudentCode:    "S-" + itoa(int64(i)),
			FirstName:      "First",
			LastName:       "Last",
			Email:          "s" + itoa(int64(i)) + "@educational.com",
			EnrollmentDate: time.Now(),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/api/students/paged?page=2&pageSize=10", admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page pagedPayload[studentPayload]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 5)
	require.EqualValues(t, 15, page.Total)
	require.Equal(t, 2, page.Page)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/livez")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
