package studio

import (
	"context"
	"errors"
	"testing"
	"time"

	"face-animation/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var catPNG = Upload{
	Name:        "cat.png",
	ContentType: "image/png",
	Data:        []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0},
}

func newMemoryDashboard(t *testing.T, cfg PageConfig) (*Dashboard, *Document, *MemoryBackend) {
	t.Helper()
	doc := NewDocument()
	mem := NewMemoryBackend(Profile{Fullname: "Test User", Email: "user@test.com", Role: "user"})
	d := NewDashboard(doc, mem, cfg, time.Second, logger.New())
	d.Load(context.Background())
	return d, doc, mem
}

func uploadAvatar(t *testing.T, d *Dashboard, file Upload) Item {
	t.Helper()
	d.Document().SetFile(d.Config().AvatarInput, &file)
	require.Equal(t, OutcomeDone, d.UploadAvatar(context.Background()))
	items := d.Avatars().Items()
	require.NotEmpty(t, items)
	return items[len(items)-1]
}

func TestDashboard_LoadShowsProfileAndExpressions(t *testing.T) {
	_, doc, _ := newMemoryDashboard(t, UserPage())

	assert.Equal(t, "Test User", doc.Text("username"))
	assert.Equal(t, "user@test.com", doc.Text("email"))
	assert.Equal(t, []string{"smile", "angry", "surprised", "sad"}, optionValues(doc.Options("expressionSelect")))
}

func TestDashboard_UploadCatPNG(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())

	uploadAvatar(t, d, catPNG)

	nodes := doc.Nodes("avatarList")
	require.Len(t, nodes, 1)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgoAAAAA", nodes[0].Media)
	assert.Equal(t, DataURL(catPNG), nodes[0].Media)

	options := doc.Options("avatarSelect")
	require.Len(t, options, 1)
	assert.Equal(t, "cat.png", options[0].Label)
	assert.Nil(t, doc.File("avatarUpload"))
	assert.Empty(t, doc.Alerts())
}

func TestDashboard_UploadWithoutFile(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())

	assert.Equal(t, OutcomeInvalid, d.UploadAvatar(context.Background()))
	assert.Equal(t, []string{"Please select an image"}, doc.Alerts())
	assert.Empty(t, doc.Nodes("avatarList"))
}

func TestDashboard_SubscriberAvatarFeedsBothSelects(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, SubscriberPage())

	avatar := uploadAvatar(t, d, catPNG)

	assert.Equal(t, []Option{{Value: avatar.ID, Label: "cat.png"}}, doc.Options("avatarSelectStep1"))
	assert.Equal(t, []Option{{Value: avatar.ID, Label: "cat.png"}}, doc.Options("sourceAvatarSelect"))
}

func TestDashboard_GenerateAndCommit(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())
	ctx := context.Background()
	avatar := uploadAvatar(t, d, catPNG)
	require.True(t, doc.Choose("avatarSelect", avatar.ID))
	require.True(t, doc.Choose("expressionSelect", "smile"))

	require.Equal(t, OutcomeDone, d.Generate(ctx, "generateBtn"))

	preview := doc.Panel("animationPreview")
	assert.True(t, preview.Visible)
	assert.Equal(t, avatar.Media, preview.Source)
	assert.Empty(t, doc.Nodes("animationList"))

	require.Equal(t, OutcomeDone, d.CommitPreview(ctx))

	nodes := doc.Nodes("animationList")
	require.Len(t, nodes, 1)
	assert.Equal(t, avatar.Media, nodes[0].Media)
	assert.Equal(t, "smile", nodes[0].Label)
	assert.False(t, doc.Panel("animationPreview").Visible)
	assert.Equal(t, StageEmpty, d.Stage().State())
}

func TestDashboard_CommitWithoutStage(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())

	assert.Equal(t, OutcomeInvalid, d.CommitPreview(context.Background()))
	assert.Empty(t, doc.Nodes("animationList"))
	assert.Empty(t, doc.Alerts())
}

func TestDashboard_RecommitIsRejected(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())
	ctx := context.Background()
	avatar := uploadAvatar(t, d, catPNG)
	doc.Choose("avatarSelect", avatar.ID)
	doc.Choose("expressionSelect", "sad")
	d.Generate(ctx, "generateBtn")
	d.CommitPreview(ctx)

	assert.Equal(t, OutcomeInvalid, d.CommitPreview(ctx))
	assert.Len(t, doc.Nodes("animationList"), 1)
}

func TestDashboard_Discard(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())
	ctx := context.Background()
	avatar := uploadAvatar(t, d, catPNG)
	doc.Choose("avatarSelect", avatar.ID)
	doc.Choose("expressionSelect", "angry")
	d.Generate(ctx, "generateBtn")

	assert.True(t, d.DiscardPreview(ctx))

	assert.Equal(t, Panel{}, doc.Panel("animationPreview"))
	assert.Empty(t, doc.Nodes("animationList"))
	assert.False(t, d.DiscardPreview(ctx))
}

func TestDashboard_GenerateRequiresSelections(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())
	avatar := uploadAvatar(t, d, catPNG)
	doc.Choose("avatarSelect", avatar.ID)

	assert.Equal(t, OutcomeInvalid, d.Generate(context.Background(), "generateBtn"))
	assert.Equal(t, "Please select avatar and expression", doc.LastAlert())
	assert.False(t, doc.Panel("animationPreview").Visible)
	assert.Equal(t, StageEmpty, d.Stage().State())
}

func TestDashboard_DeleteRemovesExactlyOne(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())
	ctx := context.Background()
	first := uploadAvatar(t, d, Upload{Name: "a.png", Data: []byte("a")})
	second := uploadAvatar(t, d, Upload{Name: "b.png", Data: []byte("b")})
	third := uploadAvatar(t, d, Upload{Name: "c.png", Data: []byte("c")})

	require.True(t, doc.Click(ctx, "avatarList", second.ID, ActionDelete))

	assert.Equal(t, []string{first.ID, third.ID}, nodeIDs(doc.Nodes("avatarList")))
	assert.Equal(t, []string{first.ID, third.ID}, optionValues(doc.Options("avatarSelect")))
	assert.Equal(t, 2, d.Avatars().Len())
}

func TestDashboard_DeleteNeedsConfirmation(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())
	avatar := uploadAvatar(t, d, catPNG)
	var asked string
	doc.Confirm = func(message string) bool {
		asked = message
		return false
	}

	doc.Click(context.Background(), "avatarList", avatar.ID, ActionDelete)

	assert.Equal(t, "Delete this avatar?", asked)
	assert.Len(t, doc.Nodes("avatarList"), 1)
}

func TestDashboard_ClickUnknownAction(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())
	avatar := uploadAvatar(t, d, catPNG)

	assert.False(t, doc.Click(context.Background(), "avatarList", avatar.ID, ActionDownload))
	assert.False(t, doc.Click(context.Background(), "avatarList", "missing", ActionDelete))
	assert.Len(t, doc.Nodes("avatarList"), 1)
}

func TestDashboard_SubscriberDrivenGeneration(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, SubscriberPage())
	ctx := context.Background()
	avatar := uploadAvatar(t, d, catPNG)
	video := Upload{Name: "drive.mp4", ContentType: "video/mp4", Data: []byte("mp4")}

	assert.Equal(t, OutcomeInvalid, d.Generate(ctx, "generateBtn"))
	assert.Equal(t, "Please select an avatar.", doc.LastAlert())

	doc.Choose("sourceAvatarSelect", avatar.ID)
	assert.Equal(t, OutcomeInvalid, d.Generate(ctx, "generateBtn"))
	assert.Equal(t, "Please upload a driving video.", doc.LastAlert())

	require.True(t, d.ChooseDrivingVideo("generateBtn", &video))
	assert.Equal(t, Panel{Visible: true, Source: DataURL(video)}, doc.Panel("videoPreview"))

	require.Equal(t, OutcomeDone, d.Generate(ctx, "generateBtn"))
	assert.Equal(t, DataURL(video), doc.Panel("animationPreview").Source)
}

func TestDashboard_SubscriberKeepsOnePreview(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, SubscriberPage())
	ctx := context.Background()
	avatar := uploadAvatar(t, d, catPNG)
	video := Upload{Name: "drive.mp4", ContentType: "video/mp4", Data: []byte("mp4")}
	doc.Choose("sourceAvatarSelect", avatar.ID)
	d.ChooseDrivingVideo("generateBtn", &video)
	require.Equal(t, OutcomeDone, d.Generate(ctx, "generateBtn"))

	doc.Choose("avatarSelectStep1", avatar.ID)
	doc.Choose("expressionSelect", "surprised")
	require.Equal(t, OutcomeDone, d.Generate(ctx, "prepareStep1Btn"))

	assert.False(t, doc.Panel("animationPreview").Visible)
	assert.True(t, doc.Panel("step1Preview").Visible)

	require.True(t, d.DownloadPreview())
	assert.Equal(t, []Download{{URL: avatar.Media, Filename: "animation_step1.mp4"}}, doc.Downloads())
}

func TestDashboard_DownloadSavedAnimation(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, UserPage())
	ctx := context.Background()
	avatar := uploadAvatar(t, d, catPNG)
	doc.Choose("avatarSelect", avatar.ID)
	doc.Choose("expressionSelect", "smile")
	d.Generate(ctx, "generateBtn")
	d.CommitPreview(ctx)
	saved := d.Animations().Items()[0]

	require.True(t, doc.Click(ctx, "animationList", saved.ID, ActionDownload))
	assert.Equal(t, []Download{{URL: saved.Media, Filename: "animation.mp4"}}, doc.Downloads())
}

func TestDashboard_ProfileEdit(t *testing.T) {
	d, doc, mem := newMemoryDashboard(t, UserPage())
	ctx := context.Background()

	d.EditProfile()
	assert.True(t, doc.Panel("editProfileForm").Visible)
	assert.Equal(t, "Test User", doc.Field("newUsername"))

	doc.SetField("newUsername", "Renamed")
	doc.SetField("newEmail", "")
	require.Equal(t, OutcomeDone, d.SaveProfile(ctx))

	assert.Equal(t, "Renamed", doc.Text("username"))
	assert.Equal(t, "user@test.com", doc.Text("email"))
	assert.False(t, doc.Panel("editProfileForm").Visible)
	assert.Equal(t, "Profile updated!", doc.LastAlert())

	profile, err := mem.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", profile.Fullname)
}

func TestDashboard_Subscription(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, SubscriberPage())
	ctx := context.Background()

	assert.Equal(t, OutcomeInvalid, d.UpdateSubscription(ctx))
	assert.Equal(t, "Please select a plan", doc.LastAlert())

	doc.SetOptions("planSelect", []Option{{Value: "basic"}, {Value: "premium"}})
	doc.Choose("planSelect", "premium")
	assert.Equal(t, OutcomeDone, d.UpdateSubscription(ctx))
	assert.Equal(t, "Subscription updated!", doc.LastAlert())

	assert.Equal(t, OutcomeDone, d.CancelSubscription(ctx))
	assert.Equal(t, "Subscription cancelled!", doc.LastAlert())
}

func TestDashboard_AdminUsers(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, AdminPage())
	ctx := context.Background()

	assert.Equal(t, OutcomeInvalid, d.CreateUser(ctx))

	doc.SetField("newUserName", "Jane Doe")
	doc.SetField("newUserEmail", "jane@test.com")
	require.Equal(t, OutcomeDone, d.CreateUser(ctx))
	nodes := doc.Nodes("userList")
	require.Len(t, nodes, 1)
	assert.Equal(t, "Jane Doe", nodes[0].Label)
	assert.Equal(t, "jane@test.com", nodes[0].Detail)
	assert.Empty(t, doc.Field("newUserName"))

	require.True(t, doc.Click(ctx, "userList", nodes[0].ID, ActionSuspend))
	assert.Equal(t, "User suspended", doc.LastAlert())
	assert.Equal(t, "suspended", doc.Nodes("userList")[0].Status)

	require.True(t, doc.Click(ctx, "userList", nodes[0].ID, ActionActivate))
	assert.Equal(t, "active", doc.Nodes("userList")[0].Status)

	require.True(t, doc.Click(ctx, "userList", nodes[0].ID, ActionDelete))
	assert.Empty(t, doc.Nodes("userList"))
}

func TestDashboard_AdminExpressions(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, AdminPage())
	ctx := context.Background()
	require.Len(t, doc.Nodes("expressionList"), 4)

	assert.Equal(t, OutcomeInvalid, d.AddExpression(ctx))
	assert.Equal(t, "Please enter an expression name.", doc.LastAlert())

	doc.SetField("expressionName", "  wink ")
	require.Equal(t, OutcomeDone, d.AddExpression(ctx))
	nodes := doc.Nodes("expressionList")
	require.Len(t, nodes, 5)
	assert.Equal(t, "wink", nodes[4].Label)
	assert.Empty(t, doc.Field("expressionName"))

	require.True(t, doc.Click(ctx, "expressionList", "sad", ActionDelete))
	assert.Len(t, doc.Nodes("expressionList"), 4)
}

func TestDashboard_Logout(t *testing.T) {
	d, doc, _ := newMemoryDashboard(t, AdminPage())

	assert.Equal(t, OutcomeDone, d.Logout(context.Background()))
	assert.Equal(t, "/login", doc.Location())
	assert.Empty(t, doc.Alerts())
}

type mockBackend struct {
	*MemoryBackend
	mock.Mock
}

func (m *mockBackend) SaveAnimation(ctx context.Context, staged Item) (string, error) {
	args := m.Called(ctx, staged)
	return args.String(0), args.Error(1)
}

func (m *mockBackend) Avatars(ctx context.Context) ([]Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func TestDashboard_FailedCommitKeepsPreview(t *testing.T) {
	doc := NewDocument()
	backend := &mockBackend{MemoryBackend: NewMemoryBackend(Profile{})}
	backend.On("Avatars", mock.Anything).Return(avatarItems("1"), nil)
	backend.On("SaveAnimation", mock.Anything, mock.Anything).Return("", reject("Animation not found"))
	ctx := context.Background()

	d := NewDashboard(doc, backend, UserPage(), time.Second, logger.New())
	d.Load(ctx)
	d.Stage().Stage(Item{ID: "staged-1", Media: "/static/animations/a.mp4"})

	assert.Equal(t, OutcomeRejected, d.CommitPreview(ctx))
	assert.Equal(t, "Animation not found", doc.LastAlert())
	assert.Equal(t, StageStaged, d.Stage().State())
	assert.True(t, doc.Panel("animationPreview").Visible)
	assert.Empty(t, doc.Nodes("animationList"))
	backend.AssertExpectations(t)
}

func TestDashboard_ReloadFailureAfterWrite(t *testing.T) {
	doc := NewDocument()
	backend := &mockBackend{MemoryBackend: NewMemoryBackend(Profile{})}
	backend.On("Avatars", mock.Anything).Return(avatarItems("1"), nil).Once()
	backend.On("Avatars", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	ctx := context.Background()

	d := NewDashboard(doc, backend, UserPage(), time.Second, logger.New())
	d.Load(ctx)
	doc.SetFile("avatarUpload", &catPNG)

	assert.Equal(t, OutcomeDone, d.UploadAvatar(ctx))
	assert.Equal(t, "Could not refresh avatars: connection reset", doc.LastAlert())
	assert.Equal(t, []string{"1"}, nodeIDs(doc.Nodes("avatarList")))
	backend.AssertExpectations(t)
}

// orderedBackend records the order in which lists are fetched.
type orderedBackend struct {
	*MemoryBackend
	fetched []string
}

func (b *orderedBackend) Avatars(ctx context.Context) ([]Item, error) {
	b.fetched = append(b.fetched, "avatars")
	return nil, errors.New("avatars down")
}

func (b *orderedBackend) Expressions(ctx context.Context) ([]Item, error) {
	b.fetched = append(b.fetched, "expressions")
	return b.MemoryBackend.Expressions(ctx)
}

func (b *orderedBackend) Animations(ctx context.Context) ([]Item, error) {
	b.fetched = append(b.fetched, "animations")
	return b.MemoryBackend.Animations(ctx)
}

func (b *orderedBackend) Users(ctx context.Context) ([]Item, error) {
	b.fetched = append(b.fetched, "users")
	return nil, errors.New("users down")
}

func TestDashboard_LoadFetchesListsInPageOrder(t *testing.T) {
	for i := 0; i < 5; i++ {
		backend := &orderedBackend{MemoryBackend: NewMemoryBackend(Profile{})}
		d := NewDashboard(NewDocument(), backend, AdminPage(), time.Second, logger.New())

		d.Load(context.Background())

		assert.Equal(t, []string{"avatars", "expressions", "users"}, backend.fetched)
		assert.Empty(t, d.Document().Alerts())
	}
}
