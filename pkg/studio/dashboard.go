package studio

import (
	"context"
	"strings"
	"sync"
	"time"

	"face-animation/pkg/logger"
)

// Generator is one way a dashboard produces a preview: an avatar plus either
// an expression or an uploaded driving video.
type Generator struct {
	Name             string
	Control          string
	AvatarSelect     string
	ExpressionSelect string
	VideoInput       string
	Panel            string
	DownloadName     string
}

func (g Generator) driven() bool {
	return g.VideoInput != ""
}

// PageConfig binds a dashboard to its element ids. Empty ids switch the
// corresponding feature off.
type PageConfig struct {
	Name string

	UsernameText string
	EmailText    string
	EditForm     string
	NewUsername  string
	NewEmail     string
	SaveProfile  string

	AvatarInput  string
	UploadAvatar string
	Avatars      ListConfig

	Expressions     ListConfig
	ExpressionInput string
	AddExpression   string

	Animations ListConfig

	Generators     []Generator
	SavePreview    string
	DrivingPreview string

	PlanSelect         string
	UpdateSubscription string
	CancelSubscription string

	Users        ListConfig
	NewUserName  string
	NewUserEmail string
	CreateUser   string
	Logout       string
}

// UserPage is the basic dashboard: avatars, expression-driven generation and
// the saved animation list.
func UserPage() PageConfig {
	return PageConfig{
		Name:         "user",
		UsernameText: "username",
		EmailText:    "email",
		EditForm:     "editProfileForm",
		NewUsername:  "newUsername",
		NewEmail:     "newEmail",
		SaveProfile:  "saveProfileBtn",
		AvatarInput:  "avatarUpload",
		UploadAvatar: "uploadAvatarBtn",
		Avatars: ListConfig{
			Container: "avatarList",
			Kind:      KindAvatar,
			Actions:   []string{ActionDelete},
			Selects:   []string{"avatarSelect"},
		},
		Expressions: ListConfig{Kind: KindExpression, Selects: []string{"expressionSelect"}},
		Animations: ListConfig{
			Container: "animationList",
			Kind:      KindAnimation,
			Actions:   []string{ActionDelete, ActionDownload},
		},
		Generators: []Generator{{
			Name:             "Generation",
			Control:          "generateBtn",
			AvatarSelect:     "avatarSelect",
			ExpressionSelect: "expressionSelect",
			Panel:            "animationPreview",
			DownloadName:     "animation.mp4",
		}},
		SavePreview: "saveAnimationBtn",
		Logout:      "logoutBtn",
	}
}

// SubscriberPage adds the two-step generator and subscription management.
func SubscriberPage() PageConfig {
	cfg := UserPage()
	cfg.Name = "subscriber"
	cfg.Avatars.Selects = []string{"avatarSelectStep1", "sourceAvatarSelect"}
	cfg.Generators = []Generator{
		{
			Name:             "Preparation",
			Control:          "prepareStep1Btn",
			AvatarSelect:     "avatarSelectStep1",
			ExpressionSelect: "expressionSelect",
			Panel:            "step1Preview",
			DownloadName:     "animation_step1.mp4",
		},
		{
			Name:         "Generation",
			Control:      "generateBtn",
			AvatarSelect: "sourceAvatarSelect",
			VideoInput:   "drivingVideoUpload",
			Panel:        "animationPreview",
			DownloadName: "animation.mp4",
		},
	}
	cfg.DrivingPreview = "videoPreview"
	cfg.PlanSelect = "planSelect"
	cfg.UpdateSubscription = "updateSubscriptionBtn"
	cfg.CancelSubscription = "cancelSubscriptionBtn"
	return cfg
}

// AdminPage manages users, avatars and the expression catalogue.
func AdminPage() PageConfig {
	return PageConfig{
		Name:         "admin",
		UsernameText: "adminUsername",
		EmailText:    "adminEmail",
		EditForm:     "editAdminForm",
		NewUsername:  "newAdminUsername",
		NewEmail:     "newAdminEmail",
		SaveProfile:  "saveAdminProfileBtn",
		AvatarInput:  "adminAvatarUpload",
		UploadAvatar: "addAvatarBtn",
		Avatars: ListConfig{
			Container: "adminAvatarList",
			Kind:      KindAvatar,
			Actions:   []string{ActionDelete},
		},
		Expressions: ListConfig{
			Container: "expressionList",
			Kind:      KindExpression,
			Actions:   []string{ActionDelete},
		},
		ExpressionInput: "expressionName",
		AddExpression:   "addExpressionBtn",
		Users: ListConfig{
			Container: "userList",
			Kind:      KindUser,
			Actions:   []string{ActionSuspend, ActionActivate, ActionDelete},
		},
		NewUserName:  "newUserName",
		NewUserEmail: "newUserEmail",
		CreateUser:   "createUserBtn",
		Logout:       "logoutAdminBtn",
	}
}

// Dashboard is a signed-in page: profile, resource lists, generators and the
// preview stage, all bound to one backend.
type Dashboard struct {
	cfg      PageConfig
	doc      *Document
	backend  Backend
	dispatch *Dispatcher
	log      *logger.Logger

	avatars     *ResourceList
	expressions *ResourceList
	animations  *ResourceList
	users       *ResourceList
	stage       *PreviewStage

	mu       sync.Mutex
	stagedBy *Generator
}

func NewDashboard(doc *Document, backend Backend, cfg PageConfig, timeout time.Duration, log *logger.Logger) *Dashboard {
	if log == nil {
		log = logger.New()
	}
	d := &Dashboard{
		cfg:      cfg,
		doc:      doc,
		backend:  backend,
		dispatch: NewDispatcher(doc, timeout),
		log:      log,
	}

	if cfg.Avatars.Container != "" || len(cfg.Avatars.Selects) > 0 {
		d.avatars = NewResourceList(doc, cfg.Avatars, backend.Avatars)
	}
	if cfg.Expressions.Container != "" || len(cfg.Expressions.Selects) > 0 {
		d.expressions = NewResourceList(doc, cfg.Expressions, backend.Expressions)
	}
	if cfg.Animations.Container != "" {
		d.animations = NewResourceList(doc, cfg.Animations, backend.Animations)
	}
	if cfg.Users.Container != "" {
		d.users = NewResourceList(doc, cfg.Users, backend.Users)
	}

	defaultPanel := ""
	if len(cfg.Generators) > 0 {
		defaultPanel = cfg.Generators[0].Panel
	}
	d.stage = NewPreviewStage(doc, defaultPanel)

	for _, list := range []*ResourceList{d.avatars, d.expressions, d.animations, d.users} {
		if list != nil && list.Config().Container != "" {
			doc.Delegate(list.Config().Container, d.handleItem)
		}
	}
	return d
}

func (d *Dashboard) Config() PageConfig {
	return d.cfg
}

func (d *Dashboard) Document() *Document {
	return d.doc
}

func (d *Dashboard) Stage() *PreviewStage {
	return d.stage
}

func (d *Dashboard) Avatars() *ResourceList {
	return d.avatars
}

func (d *Dashboard) Expressions() *ResourceList {
	return d.expressions
}

func (d *Dashboard) Animations() *ResourceList {
	return d.animations
}

func (d *Dashboard) Users() *ResourceList {
	return d.users
}

func (d *Dashboard) Dispatcher() *Dispatcher {
	return d.dispatch
}

// Load hydrates the profile and every list. Failures are logged and leave the
// section empty.
func (d *Dashboard) Load(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, d.dispatch.Timeout())
	defer cancel()

	if d.cfg.UsernameText != "" {
		profile, err := d.backend.Profile(ctx)
		if err != nil {
			d.log.Warn("Error loading profile: %v", err)
		} else {
			d.showProfile(profile)
		}
	}
	for _, l := range []struct {
		name string
		list *ResourceList
	}{
		{"avatars", d.avatars},
		{"expressions", d.expressions},
		{"animations", d.animations},
		{"users", d.users},
	} {
		if l.list == nil {
			continue
		}
		if err := l.list.Reload(ctx); err != nil {
			d.log.Warn("Error loading %s: %v", l.name, err)
		}
	}
}

func (d *Dashboard) showProfile(p Profile) {
	d.doc.SetText(d.cfg.UsernameText, p.Fullname)
	d.doc.SetText(d.cfg.EmailText, p.Email)
}

// refresh reloads a list after a confirmed write. A failed refresh is shown
// but the write stays confirmed.
func (d *Dashboard) refresh(ctx context.Context, list *ResourceList, what string) {
	if list == nil {
		return
	}
	if err := list.Reload(ctx); err != nil {
		d.log.Error("Error reloading %s: %v", what, err)
		d.doc.Alert("Could not refresh " + what + ": " + err.Error())
	}
}

func (d *Dashboard) EditProfile() {
	d.doc.ShowPanel(d.cfg.EditForm, "")
	d.doc.SetField(d.cfg.NewUsername, d.doc.Text(d.cfg.UsernameText))
	d.doc.SetField(d.cfg.NewEmail, d.doc.Text(d.cfg.EmailText))
}

func (d *Dashboard) CancelEdit() {
	d.doc.HidePanel(d.cfg.EditForm, false)
}

// SaveProfile sends the edited name and email. Blank inputs keep the current
// values.
func (d *Dashboard) SaveProfile(ctx context.Context) Outcome {
	profile := Profile{
		Fullname: strings.TrimSpace(d.doc.Field(d.cfg.NewUsername)),
		Email:    strings.TrimSpace(d.doc.Field(d.cfg.NewEmail)),
	}
	if profile.Fullname == "" {
		profile.Fullname = d.doc.Text(d.cfg.UsernameText)
	}
	if profile.Email == "" {
		profile.Email = d.doc.Text(d.cfg.EmailText)
	}

	return d.dispatch.Dispatch(ctx, Action{
		Name:    "Update",
		Control: d.cfg.SaveProfile,
		Call: func(ctx context.Context) (string, error) {
			return d.backend.UpdateProfile(ctx, profile)
		},
		Apply: func(ctx context.Context) {
			d.showProfile(profile)
			d.doc.HidePanel(d.cfg.EditForm, false)
		},
	})
}

func (d *Dashboard) UploadAvatar(ctx context.Context) Outcome {
	file := d.doc.File(d.cfg.AvatarInput)
	return d.dispatch.Dispatch(ctx, Action{
		Name:    "Upload",
		Control: d.cfg.UploadAvatar,
		Validate: func() error {
			if file == nil || len(file.Data) == 0 {
				return invalid("Please select an image")
			}
			return nil
		},
		Call: func(ctx context.Context) (string, error) {
			return d.backend.UploadAvatar(ctx, *file)
		},
		Apply: func(ctx context.Context) {
			d.doc.SetFile(d.cfg.AvatarInput, nil)
			d.refresh(ctx, d.avatars, "avatars")
		},
	})
}

func (d *Dashboard) generator(control string) (*Generator, bool) {
	for i := range d.cfg.Generators {
		if d.cfg.Generators[i].Control == control {
			return &d.cfg.Generators[i], true
		}
	}
	return nil, false
}

// ChooseDrivingVideo puts a video into the driving-video input and previews it.
func (d *Dashboard) ChooseDrivingVideo(control string, file *Upload) bool {
	g, ok := d.generator(control)
	if !ok || !g.driven() {
		return false
	}
	d.doc.SetFile(g.VideoInput, file)
	if d.cfg.DrivingPreview == "" {
		return true
	}
	if file == nil {
		d.doc.HidePanel(d.cfg.DrivingPreview, true)
	} else {
		d.doc.ShowPanel(d.cfg.DrivingPreview, DataURL(*file))
	}
	return true
}

// Generate runs the generator bound to control and stages its result. A
// preview that was still pending is replaced and discarded.
func (d *Dashboard) Generate(ctx context.Context, control string) Outcome {
	g, ok := d.generator(control)
	if !ok {
		return OutcomeInvalid
	}
	avatarID := d.doc.Value(g.AvatarSelect)
	expressionID := ""
	if g.ExpressionSelect != "" {
		expressionID = d.doc.Value(g.ExpressionSelect)
	}
	var video *Upload
	if g.driven() {
		video = d.doc.File(g.VideoInput)
	}

	var staged Item
	return d.dispatch.Dispatch(ctx, Action{
		Name:    g.Name,
		Control: g.Control,
		Validate: func() error {
			if g.driven() {
				if avatarID == "" {
					return invalid("Please select an avatar.")
				}
				if video == nil || len(video.Data) == 0 {
					return invalid("Please upload a driving video.")
				}
				return nil
			}
			if avatarID == "" || expressionID == "" {
				return invalid("Please select avatar and expression")
			}
			return nil
		},
		Call: func(ctx context.Context) (string, error) {
			var (
				msg string
				err error
			)
			if g.driven() {
				staged, msg, err = d.backend.DriveAnimation(ctx, avatarID, *video)
			} else {
				staged, msg, err = d.backend.GenerateAnimation(ctx, avatarID, expressionID)
			}
			return msg, err
		},
		Apply: func(ctx context.Context) {
			d.mu.Lock()
			d.stagedBy = g
			d.mu.Unlock()

			replaced, had := d.stage.StageIn(g.Panel, staged)
			if had && replaced.ID != staged.ID {
				d.discard(ctx, replaced)
			}
		},
	})
}

func (d *Dashboard) discard(ctx context.Context, item Item) {
	if err := d.backend.DiscardAnimation(ctx, item); err != nil {
		d.log.Warn("Error discarding preview %s: %v", item.ID, err)
	}
}

// CommitPreview saves the pending preview into the animation list. Without a
// pending preview nothing happens.
func (d *Dashboard) CommitPreview(ctx context.Context) Outcome {
	staged, ok := d.stage.Pending()
	if !ok {
		return OutcomeInvalid
	}
	return d.dispatch.Dispatch(ctx, Action{
		Name:    "Save",
		Control: d.cfg.SavePreview,
		Call: func(ctx context.Context) (string, error) {
			return d.backend.SaveAnimation(ctx, staged)
		},
		Apply: func(ctx context.Context) {
			d.stage.clearIf(staged)
			d.refresh(ctx, d.animations, "animations")
		},
	})
}

// DiscardPreview hides the preview and drops the staged media.
func (d *Dashboard) DiscardPreview(ctx context.Context) bool {
	staged, ok := d.stage.Clear()
	if !ok {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, d.dispatch.Timeout())
	defer cancel()
	d.discard(ctx, staged)
	return true
}

func (d *Dashboard) DownloadPreview() bool {
	staged, ok := d.stage.Pending()
	if !ok {
		return false
	}
	name := "animation.mp4"
	d.mu.Lock()
	if d.stagedBy != nil && d.stagedBy.DownloadName != "" {
		name = d.stagedBy.DownloadName
	}
	d.mu.Unlock()
	d.doc.Download(staged.Media, name)
	return true
}

func (d *Dashboard) UpdateSubscription(ctx context.Context) Outcome {
	plan := d.doc.Value(d.cfg.PlanSelect)
	return d.dispatch.Dispatch(ctx, Action{
		Name:    "Update",
		Control: d.cfg.UpdateSubscription,
		Validate: func() error {
			if plan == "" {
				return invalid("Please select a plan")
			}
			return nil
		},
		Call: func(ctx context.Context) (string, error) {
			return d.backend.UpdateSubscription(ctx, plan)
		},
	})
}

func (d *Dashboard) CancelSubscription(ctx context.Context) Outcome {
	if !d.doc.confirm("Cancel your subscription?") {
		return OutcomeInvalid
	}
	return d.dispatch.Dispatch(ctx, Action{
		Name:    "Cancel",
		Control: d.cfg.CancelSubscription,
		Call: func(ctx context.Context) (string, error) {
			return d.backend.CancelSubscription(ctx)
		},
	})
}

func (d *Dashboard) AddExpression(ctx context.Context) Outcome {
	name := strings.TrimSpace(d.doc.Field(d.cfg.ExpressionInput))
	return d.dispatch.Dispatch(ctx, Action{
		Name:    "Add expression",
		Control: d.cfg.AddExpression,
		Validate: func() error {
			if name == "" {
				return invalid("Please enter an expression name.")
			}
			return nil
		},
		Call: func(ctx context.Context) (string, error) {
			return d.backend.AddExpression(ctx, name)
		},
		Apply: func(ctx context.Context) {
			d.doc.SetField(d.cfg.ExpressionInput, "")
			d.refresh(ctx, d.expressions, "expressions")
		},
	})
}

func (d *Dashboard) CreateUser(ctx context.Context) Outcome {
	fullname := strings.TrimSpace(d.doc.Field(d.cfg.NewUserName))
	email := strings.TrimSpace(d.doc.Field(d.cfg.NewUserEmail))
	return d.dispatch.Dispatch(ctx, Action{
		Name:    "Create user",
		Control: d.cfg.CreateUser,
		Validate: func() error {
			if fullname == "" || email == "" {
				return invalid("Please enter a name and email.")
			}
			return nil
		},
		Call: func(ctx context.Context) (string, error) {
			return d.backend.CreateUser(ctx, fullname, email)
		},
		Apply: func(ctx context.Context) {
			d.doc.SetField(d.cfg.NewUserName, "")
			d.doc.SetField(d.cfg.NewUserEmail, "")
			d.refresh(ctx, d.users, "users")
		},
	})
}

func (d *Dashboard) Logout(ctx context.Context) Outcome {
	return d.dispatch.Dispatch(ctx, Action{
		Name:    "Logout",
		Control: d.cfg.Logout,
		Quiet:   true,
		Call: func(ctx context.Context) (string, error) {
			return "", d.backend.Logout(ctx)
		},
		Apply: func(ctx context.Context) {
			d.doc.Navigate("/login")
		},
	})
}

// handleItem is the delegated click handler shared by every list container.
func (d *Dashboard) handleItem(ctx context.Context, ev Event) {
	switch {
	case d.avatars != nil && ev.Container == d.avatars.Config().Container:
		d.deleteItem(ctx, ev, d.avatars, "avatar", d.backend.DeleteAvatar)
	case d.expressions != nil && ev.Container == d.expressions.Config().Container:
		d.deleteItem(ctx, ev, d.expressions, "expression", d.backend.DeleteExpression)
	case d.animations != nil && ev.Container == d.animations.Config().Container:
		if ev.Action == ActionDownload {
			if item, ok := d.animations.Lookup(ev.ItemID); ok {
				d.doc.Download(item.Media, "animation.mp4")
			}
			return
		}
		d.deleteItem(ctx, ev, d.animations, "animation", d.backend.DeleteAnimation)
	case d.users != nil && ev.Container == d.users.Config().Container:
		switch ev.Action {
		case ActionSuspend:
			d.setUserStatus(ctx, ev.ItemID, UserSuspend)
		case ActionActivate:
			d.setUserStatus(ctx, ev.ItemID, UserActivate)
		default:
			d.deleteItem(ctx, ev, d.users, "user", d.backend.DeleteUser)
		}
	}
}

func (d *Dashboard) deleteItem(ctx context.Context, ev Event, list *ResourceList, what string, del func(context.Context, string) (string, error)) {
	if ev.Action != ActionDelete {
		return
	}
	if !d.doc.confirm("Delete this " + what + "?") {
		return
	}
	d.dispatch.Dispatch(ctx, Action{
		Name:    "Delete",
		Control: ev.Container + "/" + ev.ItemID,
		Call: func(ctx context.Context) (string, error) {
			return del(ctx, ev.ItemID)
		},
		Apply: func(ctx context.Context) {
			d.refresh(ctx, list, what+"s")
		},
	})
}

func (d *Dashboard) setUserStatus(ctx context.Context, id string, action UserAction) {
	d.dispatch.Dispatch(ctx, Action{
		Name:    "Action",
		Control: d.cfg.Users.Container + "/" + id,
		Call: func(ctx context.Context) (string, error) {
			return d.backend.SetUserStatus(ctx, id, action)
		},
		Apply: func(ctx context.Context) {
			d.refresh(ctx, d.users, "users")
		},
	})
}
