package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quantum-pipeline/internal/catalog"
	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/jobs"
	"quantum-pipeline/internal/router"
	"quantum-pipeline/internal/session"
)

type fakeManager struct {
	jobs.Manager
	list      []domain.Job
	cancelled []string
	left      []domain.JobKind
}

func (f *fakeManager) CancelAll(_ context.Context, owner string) error {
	f.cancelled = append(f.cancelled, owner)
	return nil
}

func (f *fakeManager) Leave(_ context.Context, _ string, keep domain.JobKind) error {
	f.left = append(f.left, keep)
	return nil
}

func (f *fakeManager) List(context.Context, string) ([]domain.Job, error) {
	return f.list, nil
}

type recorder struct {
	events []string
	resets []string
}

func (r *recorder) SessionEvent(event string) { r.events = append(r.events, event) }
func (r *recorder) Reset(owner string)        { r.resets = append(r.resets, owner) }

func newStore() *session.Store {
	return session.New(session.WithHashCost(bcrypt.MinCost))
}

func TestAuthService_Login(t *testing.T) {
	rec := &recorder{}
	svc := NewAuthService(&fakeManager{}, rec, rec, nil)
	ctx := context.Background()

	store := newStore()
	identity, err := svc.Login(ctx, store, LoginInput{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "a", identity.Name)
	assert.Equal(t, domain.RoleStudent, identity.Role)
	assert.True(t, store.IsAuthenticated())

	empty := newStore()
	_, err = svc.Login(ctx, empty, LoginInput{Email: "a@b.com", Role: "Faculty"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, empty.IsAuthenticated())

	_, err = svc.Login(ctx, empty, LoginInput{Email: "a@b.com", Password: "x", Role: "wizard"})
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.False(t, empty.IsAuthenticated())

	assert.Equal(t, []string{"login", "login_failed"}, rec.events)
}

func TestAuthService_Signup(t *testing.T) {
	svc := NewAuthService(&fakeManager{}, nil, nil, nil)
	ctx := context.Background()
	valid := SignupInput{
		Name:            "Ada",
		Email:           "ada@lab.org",
		Password:        "pw",
		ConfirmPassword: "pw",
		Role:            "researcher",
		AgreeToTerms:    true,
	}

	tests := []struct {
		name   string
		mutate func(*SignupInput)
		want   error
	}{
		{"mismatch", func(in *SignupInput) { in.ConfirmPassword = "other" }, ErrPasswordMismatch},
		{"terms", func(in *SignupInput) { in.AgreeToTerms = false }, ErrTermsNotAccepted},
		{"empty name", func(in *SignupInput) { in.Name = "" }, ErrRegistrationFailed},
		{"bad role", func(in *SignupInput) { in.Role = "dean" }, ErrUnknownRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore()
			in := valid
			tt.mutate(&in)
			_, err := svc.Signup(ctx, store, in)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, store.IsAuthenticated())
		})
	}

	store := newStore()
	identity, err := svc.Signup(ctx, store, valid)
	require.NoError(t, err)
	assert.Equal(t, "Ada", identity.Name)
	assert.Equal(t, domain.RoleResearcher, identity.Role)
}

func TestAuthService_LogoutStopsSessionWork(t *testing.T) {
	mgr := &fakeManager{}
	rec := &recorder{}
	svc := NewAuthService(mgr, rec, rec, nil)
	ctx := context.Background()

	store := newStore()
	_, err := svc.Login(ctx, store, LoginInput{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, "sess-1", store))
	require.NoError(t, svc.Logout(ctx, "sess-1", store))
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, []string{"sess-1", "sess-1"}, mgr.cancelled)
	assert.Equal(t, []string{"sess-1", "sess-1"}, rec.resets)
}

type staticChats struct{}

func (staticChats) History(string) []domain.Message {
	return []domain.Message{{Sender: domain.SenderBot, Content: "hi"}}
}

func TestPanelService_Render(t *testing.T) {
	mgr := &fakeManager{list: []domain.Job{
		{ID: "DK-1", Kind: domain.JobKindDocking},
		{ID: "QJ-1", Kind: domain.JobKindQuantum},
	}}
	svc := NewPanelService(mgr, staticChats{})
	ctx := context.Background()
	store := newStore()
	require.True(t, store.Login(ctx, "a@b.com", "x", domain.RoleStudent))

	overview, err := svc.Render(ctx, "sess", store, router.PanelOverview)
	require.NoError(t, err)
	require.NotNil(t, overview.Overview)
	assert.Empty(t, overview.Jobs)

	docking, err := svc.Render(ctx, "sess", store, router.PanelDocking)
	require.NoError(t, err)
	require.Len(t, docking.Jobs, 1)
	assert.Equal(t, "DK-1", docking.Jobs[0].ID)

	quantum, err := svc.Render(ctx, "sess", store, router.PanelQuantum)
	require.NoError(t, err)
	assert.Len(t, quantum.Capabilities, 6)
	assert.Len(t, quantum.Jobs, 1)

	dataset, err := svc.Render(ctx, "sess", store, router.PanelDataset)
	require.NoError(t, err)
	require.NotNil(t, dataset.Molecules)
	assert.Len(t, dataset.Molecules.Items, catalog.PageSize)

	chat, err := svc.Render(ctx, "sess", store, router.PanelChatbot)
	require.NoError(t, err)
	assert.Len(t, chat.Conversation, 1)
	assert.Len(t, chat.QuickQuestions, 5)

	settings, err := svc.Render(ctx, "sess", store, router.PanelSettings)
	require.NoError(t, err)
	assert.Equal(t, "a", settings.Identity.Name)
	assert.Equal(t, domain.DefaultSettings(), *settings.Settings)

	assert.Equal(t, []domain.JobKind{"", domain.JobKindDocking, domain.JobKindQuantum, "", "", ""}, mgr.left)
}

func TestPanelService_SettingsRequiresIdentity(t *testing.T) {
	svc := NewPanelService(&fakeManager{}, staticChats{})
	_, err := svc.Render(context.Background(), "sess", newStore(), router.PanelSettings)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestPanelService_MoleculesStablePerOwner(t *testing.T) {
	svc := NewPanelService(&fakeManager{}, staticChats{})
	a := svc.Molecules("owner-a", catalog.MoleculeQuery{Page: 2})
	b := svc.Molecules("owner-a", catalog.MoleculeQuery{Page: 2})
	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.Page)
	assert.Equal(t, 5, a.TotalPages)
	assert.Len(t, svc.Reports("owner-a"), 15)
}
