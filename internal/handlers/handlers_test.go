package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LankyMoose/poller.pro/internal/live"
	"github.com/LankyMoose/poller.pro/internal/middleware"
	"github.com/LankyMoose/poller.pro/internal/models"
	"github.com/LankyMoose/poller.pro/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	hub    *live.Hub
}

// newTestApp wires the API the same way the server does, against an
// in-memory database.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Poll{}, &models.PollOption{}, &models.PollVote{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	hub := live.NewHub(nil)
	t.Cleanup(hub.Shutdown)

	pollService := services.NewPollService(db, hub, nil)
	authHandler := NewAuthHandler(db)
	pollHandler := NewPollHandler(pollService, hub)

	r := gin.New()
	r.Use(sessions.Sessions("poller_session", cookie.NewStore([]byte("test_secret"))))
	r.Use(middleware.LoadUser(db))

	api := r.Group("/api")
	api.POST("/signup", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/logout", authHandler.Logout)
	api.GET("/polls", pollHandler.List)

	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/polls", pollHandler.Create)
		authorized.POST("/polls/:id/vote", pollHandler.Vote)
		authorized.POST("/polls/:id/close", pollHandler.Close)
		authorized.DELETE("/polls/:id", pollHandler.Delete)
	}

	return &testApp{router: r, db: db, hub: hub}
}

// request performs an HTTP call against the test router. cookies carry the
// session between calls.
func (a *testApp) request(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signup registers a fresh account and returns its session cookies.
func (a *testApp) signup(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	w := a.request(t, http.MethodPost, "/api/signup", gin.H{"email": email, "password": password}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed with %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("signup set no session cookie")
	}
	return cookies
}

// createPoll creates a poll as the given session and returns its decoded body.
func (a *testApp) createPoll(t *testing.T, cookies []*http.Cookie, text string, options ...string) *models.Poll {
	t.Helper()
	w := a.request(t, http.MethodPost, "/api/polls", gin.H{"text": text, "options": options}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("create poll failed with %d: %s", w.Code, w.Body.String())
	}
	var poll models.Poll
	if err := json.Unmarshal(w.Body.Bytes(), &poll); err != nil {
		t.Fatalf("failed to decode poll: %v", err)
	}
	return &poll
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error
}
