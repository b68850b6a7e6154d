package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"catalog-api/internal/service"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newUserTestServer(repo *fakeUserRepository) http.Handler {
	userService := service.NewUserService(repo, service.BcryptHasher{Cost: bcrypt.MinCost})
	handler := NewUserHandler(userService, zap.NewNop())
	return mount(handler.RegisterRoutes)
}

func signupBody(name, email, password string) string {
	body, _ := json.Marshal(SignupRequest{Name: &name, Email: &email, Password: &password})
	return string(body)
}

func loginBody(email, password string) string {
	body, _ := json.Marshal(LoginRequest{Email: &email, Password: &password})
	return string(body)
}

func TestProperty_SignupPasswordLength(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("signup succeeds exactly when the trimmed password has 8+ bytes", prop.ForAll(
		func(password string) bool {
			repo := &fakeUserRepository{}
			h := newUserTestServer(repo)

			w := do(t, h, http.MethodPost, "/api/signup", signupBody("Ada", "ada@example.com", password))

			if len(strings.TrimSpace(password)) >= 8 {
				return w.Code == http.StatusOK &&
					w.Body.String() == "User added successfully!" &&
					strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") &&
					repo.count() == 1
			}

			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				return false
			}
			return w.Code == http.StatusBadRequest &&
				resp["message"] == "Password cannot be less than 8 characters!" &&
				repo.count() == 0
		},
		gen.RegexMatch(` {0,3}[a-zA-Z0-9]{0,14} {0,3}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSignup_BoundaryLengths(t *testing.T) {
	repo := &fakeUserRepository{}
	h := newUserTestServer(repo)

	w := do(t, h, http.MethodPost, "/api/signup", signupBody("Ada", "seven@example.com", "1234567"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/signup", signupBody("Ada", "eight@example.com", "12345678"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User added successfully!", w.Body.String())
}

func TestSignup_Duplicate(t *testing.T) {
	repo := &fakeUserRepository{}
	h := newUserTestServer(repo)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/signup", signupBody("Ada", "ada@example.com", "password1")).Code)

	// Duplicate is reported ahead of the short password
	for _, password := range []string{"password2", "short"} {
		w := do(t, h, http.MethodPost, "/api/signup", signupBody("Other", "ada@example.com", password))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User with this email already exists!", decodeMessage(t, w))
	}

	assert.Equal(t, 1, repo.count())
}

func TestSignup_Failures(t *testing.T) {
	t.Run("existence check", func(t *testing.T) {
		repo := &fakeUserRepository{listErr: errors.New("connection refused")}
		w := do(t, newUserTestServer(repo), http.MethodPost, "/api/signup", signupBody("Ada", "ada@example.com", "password1"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to check existing users.", decodeMessage(t, w))
	})

	t.Run("insert", func(t *testing.T) {
		repo := &fakeUserRepository{saveErr: errors.New("disk full")}
		w := do(t, newUserTestServer(repo), http.MethodPost, "/api/signup", signupBody("Ada", "ada@example.com", "password1"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to add user!", w.Body.String())
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	})

	t.Run("password too long", func(t *testing.T) {
		repo := &fakeUserRepository{}
		w := do(t, newUserTestServer(repo), http.MethodPost, "/api/signup", signupBody("Ada", "ada@example.com", strings.Repeat("p", 80)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, repo.count())
	})

	t.Run("missing email", func(t *testing.T) {
		repo := &fakeUserRepository{}
		w := do(t, newUserTestServer(repo), http.MethodPost, "/api/signup", `{"name":"Ada","password":"password1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation failed", decodeMessage(t, w))
	})

	t.Run("missing password", func(t *testing.T) {
		repo := &fakeUserRepository{}
		w := do(t, newUserTestServer(repo), http.MethodPost, "/api/signup", `{"name":"Ada","email":"ada@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation failed", decodeMessage(t, w))
	})

	t.Run("malformed", func(t *testing.T) {
		repo := &fakeUserRepository{}
		w := do(t, newUserTestServer(repo), http.MethodPost, "/api/signup", `not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeMessage(t, w))
	})
}

func TestSignup_EmptyTextIsAccepted(t *testing.T) {
	repo := &fakeUserRepository{}
	h := newUserTestServer(repo)

	w := do(t, h, http.MethodPost, "/api/signup", signupBody("", "", "password1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User added successfully!", w.Body.String())

	w = do(t, h, http.MethodGet, "/api/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"email":"","name":""}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	repo := &fakeUserRepository{}
	h := newUserTestServer(repo)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/signup", signupBody("Ada", "ada@example.com", "correct horse")).Code)

	cases := []struct {
		name     string
		email    string
		password string
		status   int
		message  string
	}{
		{"correct", "ada@example.com", "correct horse", http.StatusOK, "Logged in successfully."},
		{"wrong password", "ada@example.com", "battery staple", http.StatusUnauthorized, "Incorrect password!"},
		{"unknown email", "bob@example.com", "correct horse", http.StatusNotFound, "No user found!"},
		{"empty email", "", "correct horse", http.StatusNotFound, "No user found!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/login", loginBody(tc.email, tc.password))
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, decodeMessage(t, w))
		})
	}

	t.Run("database error", func(t *testing.T) {
		failing := &fakeUserRepository{findErr: errors.New("i/o timeout")}
		w := do(t, newUserTestServer(failing), http.MethodPost, "/api/login", loginBody("ada@example.com", "correct horse"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Database error occurred!", decodeMessage(t, w))
	})
}

func TestProperty_GetUserNeverExposesPassword(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("GET /users/{id} returns exactly id, email and name", prop.ForAll(
		func(name, local, password string) bool {
			repo := &fakeUserRepository{}
			h := newUserTestServer(repo)
			email := local + "@example.com"

			if w := do(t, h, http.MethodPost, "/api/signup", signupBody(name, email, password)); w.Code != http.StatusOK {
				return false
			}

			w := do(t, h, http.MethodGet, "/api/users/1", "")
			if w.Code != http.StatusOK {
				return false
			}

			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				return false
			}
			_, hasPassword := body["password"]

			return len(body) == 3 &&
				!hasPassword &&
				body["id"] == float64(1) &&
				body["email"] == email &&
				body["name"] == name
		},
		gen.RegexMatch(`[A-Z][a-z]{2,12}`),
		gen.RegexMatch(`[a-z]{3,10}`),
		gen.RegexMatch(`[A-Za-z0-9]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestGetUserByID_Failures(t *testing.T) {
	repo := &fakeUserRepository{}
	h := newUserTestServer(repo)

	w := do(t, h, http.MethodGet, "/api/users/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No user found for provided ID!", decodeMessage(t, w))

	w = do(t, h, http.MethodGet, "/api/users/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	failing := &fakeUserRepository{findErr: errors.New("too many connections")}
	w = do(t, newUserTestServer(failing), http.MethodGet, fmt.Sprintf("/api/users/%d", 1), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Database error!", decodeMessage(t, w))
}
