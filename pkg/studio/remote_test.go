package studio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"face-animation/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal in-test studio API: one user, cookie sessions, staged
// animations that only list once saved.
type fakeAPI struct {
	mu         sync.Mutex
	avatars    []gin.H
	animations []gin.H
	saved      map[string]bool
	uploads    []string
	nextID     int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{saved: make(map[string]bool)}
}

func (f *fakeAPI) id() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

func (f *fakeAPI) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/api/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&req)
		if req.Email != "user@test.com" || req.Password != "1234" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		c.SetCookie("session", "token-1", 3600, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "role": "user", "redirect": "user.html"})
	})

	api := r.Group("/api", func(c *gin.Context) {
		if cookie, err := c.Cookie("session"); err != nil || cookie != "token-1" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		c.Next()
	})
	api.GET("/profile", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "user": gin.H{
			"fullname": "Test User", "email": "user@test.com", "role": "user", "subscription_status": "none",
		}})
	})
	api.GET("/avatars", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true, "avatars": f.avatars})
	})
	api.POST("/avatar/upload", func(c *gin.Context) {
		file, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No file provided"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		id := f.id()
		f.uploads = append(f.uploads, file.Filename)
		f.avatars = append(f.avatars, gin.H{"avatar_id": id, "avatar_path": "avatars/" + file.Filename})
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Avatar uploaded successfully"})
	})
	api.GET("/expressions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "expressions": []gin.H{
			{"expression_id": "e1", "expression_name": "smile"},
		}})
	})
	api.POST("/animation/generate", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := f.id()
		f.animations = append(f.animations, gin.H{
			"animation_id": id, "animation_path": "animations/animation_" + id + ".mp4", "expression_name": "smile",
		})
		c.JSON(http.StatusOK, gin.H{
			"success": true, "message": "Animation generated",
			"animation_id": id, "animation_path": "animations/animation_" + id + ".mp4", "expression_name": "smile",
		})
	})
	api.POST("/animation/:id/save", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.saved[c.Param("id")] = true
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Animation saved"})
	})
	api.GET("/animations", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := make([]gin.H, 0)
		for _, a := range f.animations {
			if f.saved[a["animation_id"].(string)] {
				list = append(list, a)
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "animations": list})
	})
	api.DELETE("/avatar/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Avatar not found"})
	})
	r.GET("/broken", func(c *gin.Context) {
		c.String(http.StatusBadGateway, "<html>bad gateway</html>")
	})
	return r
}

func newRemote(t *testing.T, api *fakeAPI) (*RemoteBackend, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)
	r, err := NewRemoteBackend(&RemoteOptions{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return r, srv
}

func TestNewRemoteBackend_InvalidURL(t *testing.T) {
	_, err := NewRemoteBackend(&RemoteOptions{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestRemoteBackend_LoginKeepsSession(t *testing.T) {
	r, _ := newRemote(t, newFakeAPI())
	ctx := context.Background()

	_, err := r.Profile(ctx)
	require.Error(t, err)
	assert.True(t, IsRejected(err))
	assert.Equal(t, "Unauthorized", err.Error())

	session, err := r.Login(ctx, LoginRequest{Email: "user@test.com", Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, Session{Role: "user", Redirect: "user.html", Message: "Login successful"}, session)

	profile, err := r.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Test User", profile.Fullname)
	assert.Equal(t, "none", profile.SubscriptionStatus)
}

func TestRemoteBackend_LoginRejected(t *testing.T) {
	r, _ := newRemote(t, newFakeAPI())

	_, err := r.Login(context.Background(), LoginRequest{Email: "user@test.com", Password: "nope"})

	require.Error(t, err)
	assert.True(t, IsRejected(err))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestRemoteBackend_MalformedResponse(t *testing.T) {
	r, _ := newRemote(t, newFakeAPI())

	_, err := r.doJSON(context.Background(), http.MethodGet, "/broken", nil, nil)

	require.Error(t, err)
	assert.False(t, IsRejected(err))
	assert.Contains(t, err.Error(), "malformed response")
}

func TestRemoteBackend_UploadAndList(t *testing.T) {
	api := newFakeAPI()
	r, _ := newRemote(t, api)
	ctx := context.Background()
	_, err := r.Login(ctx, LoginRequest{Email: "user@test.com", Password: "1234"})
	require.NoError(t, err)

	msg, err := r.UploadAvatar(ctx, catPNG)
	require.NoError(t, err)
	assert.Equal(t, "Avatar uploaded successfully", msg)
	assert.Equal(t, []string{"cat.png"}, api.uploads)

	avatars, err := r.Avatars(ctx)
	require.NoError(t, err)
	require.Len(t, avatars, 1)
	assert.Equal(t, Item{ID: "1", Kind: KindAvatar, Media: "/static/avatars/cat.png", Label: "Avatar 1"}, avatars[0])

	_, err = r.DeleteAvatar(ctx, "9")
	assert.True(t, IsRejected(err))
}

func TestRemoteBackend_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-release:
		case <-req.Context().Done():
		}
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()
	defer close(release)

	r, err := NewRemoteBackend(&RemoteOptions{BaseURL: srv.URL})
	require.NoError(t, err)
	doc := NewDocument()
	d := NewDispatcher(doc, 50*time.Millisecond)

	outcome := d.Dispatch(context.Background(), Action{
		Name: "Update",
		Call: func(ctx context.Context) (string, error) {
			return r.UpdateSubscription(ctx, "premium")
		},
	})

	assert.Equal(t, OutcomeFailed, outcome)
	assert.Equal(t, "Update failed: request timed out", doc.LastAlert())
}

func TestDashboard_RemoteGenerateAndCommit(t *testing.T) {
	api := newFakeAPI()
	r, _ := newRemote(t, api)
	ctx := context.Background()
	_, err := r.Login(ctx, LoginRequest{Email: "user@test.com", Password: "1234"})
	require.NoError(t, err)

	doc := NewDocument()
	d := NewDashboard(doc, r, UserPage(), 5*time.Second, logger.New())
	d.Load(ctx)
	assert.Equal(t, "Test User", doc.Text("username"))

	doc.SetFile("avatarUpload", &catPNG)
	require.Equal(t, OutcomeDone, d.UploadAvatar(ctx))
	assert.Equal(t, []Option{{Value: "1", Label: "Avatar 1"}}, doc.Options("avatarSelect"))

	doc.Choose("avatarSelect", "1")
	doc.Choose("expressionSelect", "e1")
	require.Equal(t, OutcomeDone, d.Generate(ctx, "generateBtn"))
	assert.Equal(t, "Animation generated", doc.LastAlert())
	assert.Equal(t, "/static/animations/animation_2.mp4", doc.Panel("animationPreview").Source)
	assert.Empty(t, doc.Nodes("animationList"))

	require.Equal(t, OutcomeDone, d.CommitPreview(ctx))
	nodes := doc.Nodes("animationList")
	require.Len(t, nodes, 1)
	assert.Equal(t, "2", nodes[0].ID)
	assert.Equal(t, "smile", nodes[0].Label)
	assert.False(t, doc.Panel("animationPreview").Visible)
}
