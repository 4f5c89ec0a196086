package studio

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Login and signup element ids.
const (
	RoleGroup     = "roles"
	FormTitle     = "formTitle"
	FullnameField = "fullname"
	EmailField    = "email"
	PasswordField = "password"
	ConfirmField  = "confirm"
	LoginForm     = "loginForm"
	SignupForm    = "signupForm"
)

// LoginPage is the role-tabbed login form with canned test credentials.
type LoginPage struct {
	doc      *Document
	backend  Backend
	dispatch *Dispatcher
	roles    *RoleSelector
}

func NewLoginPage(doc *Document, backend Backend, timeout time.Duration) *LoginPage {
	return &LoginPage{
		doc:      doc,
		backend:  backend,
		dispatch: NewDispatcher(doc, timeout),
		roles: NewRoleSelector(doc, RoleSelectorConfig{
			Group:         RoleGroup,
			Title:         FormTitle,
			EmailField:    EmailField,
			PasswordField: PasswordField,
			Default:       "User Login",
		}, LoginRoles()),
	}
}

func (p *LoginPage) Roles() *RoleSelector {
	return p.roles
}

func (p *LoginPage) SelectRole(key string) bool {
	return p.roles.Select(key)
}

// Submit logs in with the current form values and navigates to the returned
// redirect on success.
func (p *LoginPage) Submit(ctx context.Context) Outcome {
	email := strings.TrimSpace(p.doc.Field(EmailField))
	password := p.doc.Field(PasswordField)

	var session Session
	return p.dispatch.Dispatch(ctx, Action{
		Name:    "Login",
		Control: LoginForm,
		Validate: func() error {
			if email == "" || password == "" {
				return invalid("Email and password required")
			}
			return nil
		},
		Call: func(ctx context.Context) (string, error) {
			var err error
			session, err = p.backend.Login(ctx, LoginRequest{
				Role:     p.roles.Active().Key,
				Email:    email,
				Password: password,
			})
			return session.Message, err
		},
		Apply: func(ctx context.Context) {
			if session.Redirect != "" {
				p.doc.Navigate(session.Redirect)
			}
		},
	})
}

// SignupPage is the role-tabbed account form.
type SignupPage struct {
	doc      *Document
	backend  Backend
	dispatch *Dispatcher
	roles    *RoleSelector
}

func NewSignupPage(doc *Document, backend Backend, timeout time.Duration) *SignupPage {
	return &SignupPage{
		doc:      doc,
		backend:  backend,
		dispatch: NewDispatcher(doc, timeout),
		roles: NewRoleSelector(doc, RoleSelectorConfig{
			Group:   RoleGroup,
			Title:   FormTitle,
			Default: "user",
		}, SignupRoles()),
	}
}

func (p *SignupPage) Roles() *RoleSelector {
	return p.roles
}

func (p *SignupPage) SelectRole(key string) bool {
	return p.roles.Select(key)
}

func (p *SignupPage) Submit(ctx context.Context) Outcome {
	req := SignupRequest{
		Fullname: strings.TrimSpace(p.doc.Field(FullnameField)),
		Email:    strings.TrimSpace(p.doc.Field(EmailField)),
		Password: p.doc.Field(PasswordField),
	}
	confirm := p.doc.Field(ConfirmField)

	return p.dispatch.Dispatch(ctx, Action{
		Name:    "Signup",
		Control: SignupForm,
		Validate: func() error {
			if req.Fullname == "" || req.Email == "" || req.Password == "" {
				return invalid("All fields are required")
			}
			if req.Password != confirm {
				return invalid("Passwords do not match")
			}
			return nil
		},
		Call: func(ctx context.Context) (string, error) {
			return p.backend.Signup(ctx, req)
		},
		Apply: func(ctx context.Context) {
			p.doc.Navigate("/login")
		},
	})
}

const (
	SampleAnimationList = "sampleAnimationList"
	PlanField           = "plan"
	UpgradeForm         = "upgradeForm"
)

// SampleAnimations are the clips shown to guests.
var SampleAnimations = []string{"sample1.mp4", "sample2.mp4", "sample3.mp4", "sample4.mp4"}

// GuestPage shows the sample gallery and the upgrade form.
type GuestPage struct {
	doc     *Document
	samples *ResourceList
}

func NewGuestPage(doc *Document) *GuestPage {
	p := &GuestPage{
		doc:     doc,
		samples: NewResourceList(doc, ListConfig{Container: SampleAnimationList, Kind: KindSample}, nil),
	}
	for _, src := range SampleAnimations {
		p.samples.Append(Item{ID: src, Kind: KindSample, Media: src, Label: src})
	}
	return p
}

func (p *GuestPage) Samples() *ResourceList {
	return p.samples
}

// Upgrade acknowledges the chosen plan. Payment is handled elsewhere.
func (p *GuestPage) Upgrade() Outcome {
	plan := strings.TrimSpace(p.doc.Field(PlanField))
	if plan == "" {
		p.doc.Alert("Please select a plan")
		return OutcomeInvalid
	}
	p.doc.Alert(fmt.Sprintf("You selected the %s plan. Redirecting to payment...", plan))
	return OutcomeDone
}
