package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/daffahilmyf/mdd-seed/internal/domain/entity"
	"github.com/daffahilmyf/mdd-seed/internal/domain/service"
	"github.com/daffahilmyf/mdd-seed/internal/infra/persistence"
	"github.com/gin-gonic/gin"
)

// FakeAuthServer plays the application's registration endpoint. Accepted
// registrations are inserted into DB when one is set.
type FakeAuthServer struct {
	*httptest.Server

	db *persistence.DB

	mu       sync.Mutex
	requests []service.Registration
	rejected map[string]int
	status   int
}

func NewFakeAuthServer(t testing.TB, db *persistence.DB) *FakeAuthServer {
	t.Helper()

	f := &FakeAuthServer{
		db:       db,
		rejected: make(map[string]int),
		status:   http.StatusCreated,
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/auth/register", f.register)

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Close)
	return f
}

// BaseURL is the api base the client should be pointed at.
func (f *FakeAuthServer) BaseURL() string {
	return f.URL + "/api"
}

// Reject makes registrations for username answer with status.
func (f *FakeAuthServer) Reject(username string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected[strings.ToLower(username)] = status
}

// SuccessStatus overrides the status sent for accepted registrations.
func (f *FakeAuthServer) SuccessStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *FakeAuthServer) Requests() []service.Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Registration, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAuthServer) register(c *gin.Context) {
	var req service.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	rejected, isRejected := f.rejected[strings.ToLower(req.Username)]
	status := f.status
	f.mu.Unlock()

	if isRejected {
		c.JSON(rejected, gin.H{"message": "registration refused"})
		return
	}

	if f.db != nil {
		user := entity.User{Username: req.Username, Email: req.Email}
		if err := f.db.Conn.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
			if persistence.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "username or email already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
	}
	c.JSON(status, gin.H{"message": "User registered successfully"})
}
