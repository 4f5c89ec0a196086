package studio

import "sync"

// Credentials are the canned test account shown for a role.
type Credentials struct {
	Email    string
	Password string
	Redirect string
}

type Role struct {
	Key         string
	Title       string
	Credentials *Credentials
}

// LoginRoles are the login tabs with their test accounts.
func LoginRoles() []Role {
	return []Role{
		{Key: "User Login", Title: "User Login", Credentials: &Credentials{Email: "user@test.com", Password: "1234", Redirect: "user.html"}},
		{Key: "Admin Login", Title: "Admin Login", Credentials: &Credentials{Email: "admin@test.com", Password: "admin", Redirect: "admin.html"}},
		{Key: "Guest Login", Title: "Guest Login", Credentials: &Credentials{Email: "guest@test.com", Password: "guest", Redirect: "guest.html"}},
		{Key: "Subscribers / Paid User Login", Title: "Subscribers / Paid User Login", Credentials: &Credentials{Email: "subscriber@test.com", Password: "sub123", Redirect: "subscriber.html"}},
	}
}

// SignupRoles are the signup tabs.
func SignupRoles() []Role {
	return []Role{
		{Key: "user", Title: "User Sign Up"},
		{Key: "admin", Title: "Admin Sign Up"},
		{Key: "guest", Title: "Guest Sign Up"},
		{Key: "subscriber", Title: "Subscribers / Paid User Sign Up"},
	}
}

// RoleSelectorConfig names the elements a selector drives. EmailField and
// PasswordField are optional; without them credentials are never autofilled.
type RoleSelectorConfig struct {
	Group         string
	Title         string
	EmailField    string
	PasswordField string
	Default       string
}

// RoleSelector keeps exactly one role of a fixed set active.
type RoleSelector struct {
	doc   *Document
	cfg   RoleSelectorConfig
	roles []Role
	index map[string]int

	mu     sync.Mutex
	active string
}

// NewRoleSelector selects cfg.Default, or the first role when the default is
// empty or unknown.
func NewRoleSelector(doc *Document, cfg RoleSelectorConfig, roles []Role) *RoleSelector {
	s := &RoleSelector{
		doc:   doc,
		cfg:   cfg,
		roles: append([]Role(nil), roles...),
		index: make(map[string]int, len(roles)),
	}
	for i, r := range s.roles {
		s.index[r.Key] = i
	}

	if existing := doc.ActiveIn(cfg.Group); len(existing) == 1 && s.Select(existing[0]) {
		return s
	}
	if !s.Select(cfg.Default) && len(s.roles) > 0 {
		s.Select(s.roles[0].Key)
	}
	return s
}

// Select makes key the active role. Unknown keys leave everything untouched.
func (s *RoleSelector) Select(key string) bool {
	i, ok := s.index[key]
	if !ok {
		return false
	}
	role := s.roles[i]

	s.mu.Lock()
	s.active = role.Key
	s.mu.Unlock()

	s.doc.Activate(s.cfg.Group, role.Key)
	if s.cfg.Title != "" {
		s.doc.SetText(s.cfg.Title, role.Title)
	}
	if role.Credentials != nil && s.cfg.EmailField != "" && s.cfg.PasswordField != "" {
		s.doc.SetField(s.cfg.EmailField, role.Credentials.Email)
		s.doc.SetField(s.cfg.PasswordField, role.Credentials.Password)
	}
	return true
}

func (s *RoleSelector) Active() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[s.active]; ok {
		return s.roles[i]
	}
	return Role{}
}

func (s *RoleSelector) Roles() []Role {
	return append([]Role(nil), s.roles...)
}

// RoleFor looks up a configured role.
func (s *RoleSelector) RoleFor(key string) (Role, bool) {
	i, ok := s.index[key]
	if !ok {
		return Role{}, false
	}
	return s.roles[i], true
}
