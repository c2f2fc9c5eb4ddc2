package controller

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"house-panel/database"
	"house-panel/database/model"
	"house-panel/logger"
	"house-panel/web/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func init() {
	logger.InitLogger(logging.ERROR)
	gin.SetMode(gin.TestMode)
}

func setup() {
	dbPath := "test.db"
	os.Remove(dbPath)
	os.Remove(dbPath + "-wal")
	os.Remove(dbPath + "-shm")
	database.InitDB(dbPath)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
	os.Remove("test.db-wal")
	os.Remove("test.db-shm")
}

func newTestRouter() *gin.Engine {
	engine := gin.New()
	store := cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))
	engine.Use(sessions.Sessions("house-panel", store))
	NewIndexController(engine.Group("/"))
	return engine
}

func postForm(engine *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func addLoginAccount(t *testing.T, username string) {
	memberService := service.MemberService{}
	userService := service.UserService{}

	member := &model.Member{Name: "Test Member", Email: "test@example.org"}
	assert.NoError(t, memberService.AddMember(member))
	_, err := userService.CreateAccount(member.Id, username, "hunter2")
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	setup()
	defer teardown()

	addLoginAccount(t, "tester")
	engine := newTestRouter()

	w := postForm(engine, "/login", url.Values{
		"username": {"tester"},
		"password": {"hunter2"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	w = postForm(engine, "/login", url.Values{
		"username": {"tester"},
		"password": {"hunter3"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestLoginRespondsWhenSessionRejected(t *testing.T) {
	setup()
	defer teardown()

	// a username too large for the session cookie, so saving the login
	// session fails after the password already checked out
	username := strings.Repeat("x", 8192)
	addLoginAccount(t, username)
	engine := newTestRouter()

	w := postForm(engine, "/login", url.Values{
		"username": {username},
		"password": {"hunter2"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
