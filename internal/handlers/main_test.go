package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chatloop-dev/chatloop/db"
	"github.com/chatloop-dev/chatloop/internal/auth"
	"github.com/chatloop-dev/chatloop/internal/router"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
)

// setupRouter builds the full application router against a fresh in-memory
// sqlite database. Each test gets its own named database so state never
// leaks between tests.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")

	if err := auth.InitJWTSecret(); err != nil {
		t.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	if err := db.OpenDatabase(sqlite.Open(dsn)); err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return router.NewRouter()
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

// registerAndLogin creates a user and returns its bearer token and id.
func registerAndLogin(t *testing.T, r *gin.Engine, username, email, password string) (string, uint) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, want %d (%s)", username, w.Code, http.StatusCreated, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, want %d (%s)", username, w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}

	decodeBody(t, w, &body)

	if body.Token == "" {
		t.Fatalf("login %s: token is empty", username)
	}

	return body.Token, body.User.ID
}

// createRoom makes a room on behalf of the token's owner and returns its id.
func createRoom(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/rooms/create", token, gin.H{"name": name})

	if w.Code != http.StatusOK {
		t.Fatalf("create room %s: status = %d, want %d (%s)", name, w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		Room struct {
			ID uint `json:"id"`
		} `json:"room"`
	}

	decodeBody(t, w, &body)

	if body.Room.ID == 0 {
		t.Fatalf("create room %s: room id is zero", name)
	}

	return body.Room.ID
}
