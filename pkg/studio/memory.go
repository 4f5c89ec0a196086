package studio

import (
	"context"
	"encoding/base64"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBackend is the local-only variant: nothing leaves the process and all
// state is lost with it. Media are data URLs of the chosen files, and a
// "generated" animation is the input media itself.
type MemoryBackend struct {
	mu sync.Mutex

	roles       map[string]Credentials
	profile     Profile
	avatars     []Item
	expressions []Item
	animations  []Item
	users       []Item
	plan        string
	now         func() time.Time
}

var defaultExpressionNames = []string{"smile", "angry", "surprised", "sad"}

func NewMemoryBackend(profile Profile) *MemoryBackend {
	m := &MemoryBackend{
		roles:   make(map[string]Credentials),
		profile: profile,
		now:     time.Now,
	}
	for _, r := range LoginRoles() {
		if r.Credentials != nil {
			m.roles[r.Key] = *r.Credentials
		}
	}
	for _, name := range defaultExpressionNames {
		m.expressions = append(m.expressions, Item{ID: name, Kind: KindExpression, Label: name})
	}
	return m
}

var _ Backend = (*MemoryBackend)(nil)

// DataURL encodes a file the way a browser FileReader would.
func DataURL(file Upload) string {
	contentType := file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Name)))
	}
	if contentType == "" {
		contentType = http.DetectContentType(file.Data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(file.Data)
}

func newLocalID(kind Kind) string {
	return string(kind) + "-" + uuid.New().String()
}

func removeItem(items []Item, id string) ([]Item, bool) {
	for i, item := range items {
		if item.ID == id {
			return append(items[:i:i], items[i+1:]...), true
		}
	}
	return items, false
}

func findItem(items []Item, id string) (Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func (m *MemoryBackend) Login(ctx context.Context, req LoginRequest) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	creds, ok := m.roles[req.Role]
	if !ok || req.Email != creds.Email || req.Password != creds.Password {
		return Session{}, reject("Invalid email or password. Use the test credentials.")
	}
	// The local variant redirects without a confirmation message.
	return Session{Role: req.Role, Redirect: creds.Redirect}, nil
}

func (m *MemoryBackend) Signup(ctx context.Context, req SignupRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Detail, req.Email) {
			return "", reject("Email already exists")
		}
	}
	m.users = append(m.users, Item{
		ID:        newLocalID(KindUser),
		Kind:      KindUser,
		Label:     req.Fullname,
		Detail:    req.Email,
		Status:    "none",
		CreatedAt: m.now(),
	})
	return "Account created successfully", nil
}

func (m *MemoryBackend) Logout(ctx context.Context) error {
	return nil
}

func (m *MemoryBackend) Profile(ctx context.Context) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile, nil
}

func (m *MemoryBackend) UpdateProfile(ctx context.Context, p Profile) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Fullname != "" {
		m.profile.Fullname = p.Fullname
	}
	if p.Email != "" {
		m.profile.Email = p.Email
	}
	return "Profile updated!", nil
}

func (m *MemoryBackend) Avatars(ctx context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.avatars...), nil
}

func (m *MemoryBackend) UploadAvatar(ctx context.Context, file Upload) (string, error) {
	item := Item{
		ID:        newLocalID(KindAvatar),
		Kind:      KindAvatar,
		Media:     DataURL(file),
		Label:     file.Name,
		CreatedAt: m.now(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avatars = append(m.avatars, item)
	return "", nil
}

func (m *MemoryBackend) DeleteAvatar(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	if m.avatars, ok = removeItem(m.avatars, id); !ok {
		return "", reject("Avatar not found")
	}
	return "", nil
}

func (m *MemoryBackend) Expressions(ctx context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.expressions...), nil
}

func (m *MemoryBackend) AddExpression(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expressions = append(m.expressions, Item{ID: newLocalID(KindExpression), Kind: KindExpression, Label: name})
	return "", nil
}

func (m *MemoryBackend) DeleteExpression(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	if m.expressions, ok = removeItem(m.expressions, id); !ok {
		return "", reject("Expression not found")
	}
	return "", nil
}

func (m *MemoryBackend) GenerateAnimation(ctx context.Context, avatarID, expressionID string) (Item, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	avatar, ok := findItem(m.avatars, avatarID)
	if !ok {
		return Item{}, "", reject("Avatar not found")
	}
	expression, ok := findItem(m.expressions, expressionID)
	if !ok {
		return Item{}, "", reject("Expression not found")
	}
	return Item{
		ID:        newLocalID(KindAnimation),
		Kind:      KindAnimation,
		Media:     avatar.Media,
		Label:     expression.Label,
		CreatedAt: m.now(),
	}, "", nil
}

func (m *MemoryBackend) DriveAnimation(ctx context.Context, avatarID string, video Upload) (Item, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := findItem(m.avatars, avatarID); !ok {
		return Item{}, "", reject("Avatar not found")
	}
	return Item{
		ID:        newLocalID(KindAnimation),
		Kind:      KindAnimation,
		Media:     DataURL(video),
		Label:     "Custom",
		CreatedAt: m.now(),
	}, "", nil
}

func (m *MemoryBackend) SaveAnimation(ctx context.Context, staged Item) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := findItem(m.animations, staged.ID); exists {
		return "", reject("Animation already saved")
	}
	staged.Kind = KindAnimation
	m.animations = append(m.animations, staged)
	return "", nil
}

func (m *MemoryBackend) DiscardAnimation(ctx context.Context, staged Item) error {
	return nil
}

func (m *MemoryBackend) Animations(ctx context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.animations...), nil
}

func (m *MemoryBackend) DeleteAnimation(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	if m.animations, ok = removeItem(m.animations, id); !ok {
		return "", reject("Animation not found")
	}
	return "", nil
}

func (m *MemoryBackend) UpdateSubscription(ctx context.Context, plan string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = plan
	m.profile.Role = "subscriber"
	m.profile.SubscriptionStatus = "active"
	return "Subscription updated!", nil
}

func (m *MemoryBackend) CancelSubscription(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = ""
	m.profile.SubscriptionStatus = "cancelled"
	return "Subscription cancelled!", nil
}

func (m *MemoryBackend) Users(ctx context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.users...), nil
}

func (m *MemoryBackend) CreateUser(ctx context.Context, fullname, email string) (string, error) {
	_, err := m.Signup(ctx, SignupRequest{Fullname: fullname, Email: email})
	if err != nil {
		return "", err
	}
	return "", nil
}

func (m *MemoryBackend) SetUserStatus(ctx context.Context, id string, action UserAction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID != id {
			continue
		}
		switch action {
		case UserSuspend:
			m.users[i].Status = "suspended"
			return "User suspended", nil
		case UserActivate:
			m.users[i].Status = "active"
			return "User activated", nil
		default:
			return "", reject("Unknown action")
		}
	}
	return "", reject("User not found")
}

func (m *MemoryBackend) DeleteUser(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	if m.users, ok = removeItem(m.users, id); !ok {
		return "", reject("User not found")
	}
	return "", nil
}
