package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isbul/app-core/internal/domain/auth"
	"github.com/isbul/app-core/internal/domain/listing"
	"github.com/isbul/app-core/internal/domain/view"
	"github.com/isbul/app-core/internal/mocks"
	"github.com/isbul/app-core/internal/ports"
)

type controllerFixture struct {
	ctrl     *Controller
	sessions *mocks.MemorySessionStore
	api      *mocks.StubAuthAPI
}

// newControllerFixture builds a started controller. A non-nil sess is
// persisted before Start so the controller restores it.
func newControllerFixture(t *testing.T, sess *auth.Session) *controllerFixture {
	t.Helper()

	sessions := mocks.NewMemorySessionStore()
	api := &mocks.StubAuthAPI{}
	if sess != nil {
		require.NoError(t, sessions.Save(context.Background(), *sess))
	}

	ctrl := NewController(ControllerOptions{Sessions: sessions, Auth: api})
	ctrl.Start(context.Background())
	return &controllerFixture{ctrl: ctrl, sessions: sessions, api: api}
}

func TestController_StartAsGuest(t *testing.T) {
	f := newControllerFixture(t, nil)

	assert.Equal(t, view.Home, f.ctrl.CurrentView())
	assert.Nil(t, f.ctrl.Session())
}

func TestController_StartRestoresAdminToPanel(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 1, Role: auth.RoleAdmin})

	assert.Equal(t, view.AdminPanel, f.ctrl.CurrentView())
	require.NotNil(t, f.ctrl.Session())
	assert.Equal(t, auth.RoleAdmin, f.ctrl.Session().Role)
}

func TestController_StartRestoresEmployerToHome(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 2, Role: auth.RoleEmployer})

	assert.Equal(t, view.Home, f.ctrl.CurrentView())
	require.NotNil(t, f.ctrl.Session())
}

func TestController_Navigate_EligibilityMatrix(t *testing.T) {
	actors := []struct {
		name string
		sess *auth.Session
	}{
		{"guest", nil},
		{"job-seeker", &auth.Session{ID: 1, Role: auth.RoleJobSeeker}},
		{"employer", &auth.Session{ID: 2, Role: auth.RoleEmployer}},
		{"admin", &auth.Session{ID: 3, Role: auth.RoleAdmin}},
	}

	for _, actor := range actors {
		for _, target := range view.All() {
			f := newControllerFixture(t, actor.sess)
			f.ctrl.Navigate(target, nil)

			want := view.Home
			if view.CanEnter(target, actor.sess) {
				want = target
			}
			assert.Equal(t, want, f.ctrl.CurrentView(),
				"actor %s navigating to %s", actor.name, target)
		}
	}
}

func TestController_Navigate_UnknownViewFallsBackToHome(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 4, Role: auth.RoleEmployer})
	f.ctrl.Navigate(view.MyAds, nil)
	require.Equal(t, view.MyAds, f.ctrl.CurrentView())

	f.ctrl.Navigate(view.View("chat"), nil)
	assert.Equal(t, view.Home, f.ctrl.CurrentView())
}

func TestController_Navigate_GuardRejectionDropsParams(t *testing.T) {
	f := newControllerFixture(t, nil)
	id := int64(42)
	f.ctrl.Navigate(view.Detail, &view.Params{ListingID: &id})
	require.Equal(t, view.Detail, f.ctrl.CurrentView())

	// The guest bounces off my-ads; the detail payload must not leak
	// into the fallback view.
	f.ctrl.Navigate(view.MyAds, nil)
	assert.Equal(t, view.Home, f.ctrl.CurrentView())
	assert.True(t, f.ctrl.Params().IsZero())
}

// Scenario: guest opens a listing detail with its id as payload.
func TestController_GuestOpensDetail(t *testing.T) {
	f := newControllerFixture(t, nil)
	id := int64(42)

	f.ctrl.Navigate(view.Detail, &view.Params{ListingID: &id})

	assert.Equal(t, view.Detail, f.ctrl.CurrentView())
	got := f.ctrl.Params()
	require.NotNil(t, got.ListingID)
	assert.Equal(t, int64(42), *got.ListingID)
}

// Scenario: employer promotes a listing; all payment params survive the
// transition together.
func TestController_EmployerEntersPayment(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 5, Role: auth.RoleEmployer})
	f.ctrl.Navigate(view.MyAds, nil)
	require.Equal(t, view.MyAds, f.ctrl.CurrentView())

	id := int64(7)
	f.ctrl.Navigate(view.Payment, &view.Params{
		ListingID:       &id,
		ListingTitle:    "X",
		SelectedPackage: &listing.Package{ID: 3},
	})

	assert.Equal(t, view.Payment, f.ctrl.CurrentView())
	got := f.ctrl.Params()
	require.NotNil(t, got.ListingID)
	assert.Equal(t, int64(7), *got.ListingID)
	assert.Equal(t, "X", got.ListingTitle)
	require.NotNil(t, got.SelectedPackage)
	assert.Equal(t, int64(3), got.SelectedPackage.ID)
}

func TestController_ParamsDoNotOutliveUnrelatedTransitions(t *testing.T) {
	f := newControllerFixture(t, nil)
	id := int64(42)
	f.ctrl.Navigate(view.Detail, &view.Params{ListingID: &id})

	f.ctrl.Navigate(view.Home, nil)
	f.ctrl.Navigate(view.Detail, nil)

	assert.Equal(t, view.Detail, f.ctrl.CurrentView())
	assert.True(t, f.ctrl.Params().IsZero(),
		"a transition that supplies no payload must not resurrect the old one")
}

func TestController_GoBack_FollowsStaticEdges(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 6, Role: auth.RoleEmployer})

	f.ctrl.Navigate(view.MyAds, nil)
	f.ctrl.Navigate(view.EditAd, &view.Params{DraftListing: &listing.Listing{ID: 9}})
	require.Equal(t, view.EditAd, f.ctrl.CurrentView())

	f.ctrl.GoBack()
	assert.Equal(t, view.MyAds, f.ctrl.CurrentView())
	assert.True(t, f.ctrl.Params().IsZero(), "back clears the draft payload")

	f.ctrl.GoBack()
	assert.Equal(t, view.Home, f.ctrl.CurrentView())
	f.ctrl.GoBack()
	assert.Equal(t, view.Home, f.ctrl.CurrentView(), "home backs onto itself")
}

// Scenario: admin login lands on the admin panel, where the tab bar is
// hidden.
func TestController_AdminLoginLandsOnPanel(t *testing.T) {
	f := newControllerFixture(t, nil)

	f.ctrl.OnLoginSuccess(context.Background(), auth.Session{ID: 10, Role: auth.RoleAdmin})

	assert.Equal(t, view.AdminPanel, f.ctrl.CurrentView())
	assert.False(t, f.ctrl.TabBarVisible())
	require.NotNil(t, f.sessions.Stored())
	assert.Equal(t, auth.RoleAdmin, f.sessions.Stored().Role)
}

// Scenario: job-seeker login lands on home with the seeker tab set.
func TestController_JobSeekerLoginLandsOnHome(t *testing.T) {
	f := newControllerFixture(t, nil)

	f.ctrl.OnLoginSuccess(context.Background(), auth.Session{ID: 11, Role: auth.RoleJobSeeker})

	assert.Equal(t, view.Home, f.ctrl.CurrentView())
	assert.Equal(t,
		[]view.View{view.Home, view.MyApplications, view.Favorites, view.Profile},
		tabKeys(f.ctrl.Tabs()))
}

func TestController_Login_RejectionLeavesStateUntouched(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.Navigate(view.Login, nil)
	f.api.LoginFunc = func(context.Context, ports.Credentials) (auth.Session, error) {
		return auth.Session{}, errors.New("invalid credentials")
	}

	err := f.ctrl.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "nope"})

	assert.ErrorContains(t, err, "invalid credentials")
	assert.Equal(t, view.Login, f.ctrl.CurrentView(), "the login screen stays up")
	assert.Nil(t, f.ctrl.Session())
	assert.Nil(t, f.sessions.Stored())
}

func TestController_Login_SuccessInstallsSession(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.api.Session = auth.Session{ID: 12, Email: "emre@example.com", Role: auth.RoleEmployer}

	err := f.ctrl.Login(context.Background(), ports.Credentials{Email: "emre@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, view.Home, f.ctrl.CurrentView())
	require.NotNil(t, f.ctrl.Session())
	assert.Equal(t, int64(12), f.ctrl.Session().ID)
}

func TestController_LoginSuccess_SaveFailureKeepsInMemorySession(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.sessions.SaveErr = errors.New("storage unavailable")

	f.ctrl.OnLoginSuccess(context.Background(), auth.Session{ID: 13, Role: auth.RoleJobSeeker})

	// The in-memory session is authoritative for this process run.
	require.NotNil(t, f.ctrl.Session())
	assert.Equal(t, view.Home, f.ctrl.CurrentView())
}

func TestController_Logout_IsIdempotent(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 14, Role: auth.RoleJobSeeker})
	f.ctrl.Navigate(view.Favorites, nil)
	require.Equal(t, view.Favorites, f.ctrl.CurrentView())

	for i := 0; i < 2; i++ {
		f.ctrl.OnLogout(context.Background())
		assert.Equal(t, view.Home, f.ctrl.CurrentView())
		assert.Nil(t, f.ctrl.Session())
		assert.Nil(t, f.sessions.Stored())
		assert.True(t, f.ctrl.Params().IsZero())
	}
	assert.Equal(t, 2, f.api.LogoutCalls)
}

func TestController_Logout_ClearFailureStillLogsOut(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 15, Role: auth.RoleEmployer})
	f.sessions.ClearErr = errors.New("storage unavailable")

	f.ctrl.OnLogout(context.Background())

	assert.Nil(t, f.ctrl.Session())
	assert.Equal(t, view.Home, f.ctrl.CurrentView())
}

func TestController_Register_SuccessMovesGuestToLogin(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.Navigate(view.Register, nil)

	err := f.ctrl.Register(context.Background(), ports.Registration{
		Email:    "yeni@example.com",
		Password: "pw",
		FullName: "Yeni Üye",
		Role:     auth.RoleJobSeeker,
	})

	require.NoError(t, err)
	assert.Equal(t, view.Login, f.ctrl.CurrentView())
}

func TestController_Register_FailurePropagates(t *testing.T) {
	f := newControllerFixture(t, nil)
	f.ctrl.Navigate(view.Register, nil)
	f.api.RegisterFunc = func(context.Context, ports.Registration) error {
		return errors.New("email already taken")
	}

	err := f.ctrl.Register(context.Background(), ports.Registration{Email: "dup@example.com"})

	assert.ErrorContains(t, err, "email already taken")
	assert.Equal(t, view.Register, f.ctrl.CurrentView())
}

// Scenario: a profile fetch issued before logout must not resurrect the
// session when it completes afterwards.
func TestController_ApplyProfile_StaleGenerationDiscarded(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 16, Role: auth.RoleJobSeeker})
	gen := f.ctrl.Generation()

	f.ctrl.OnLogout(context.Background())

	applied := f.ctrl.ApplyProfile(context.Background(), gen,
		auth.Session{ID: 16, FullName: "Güncel Ad", Role: auth.RoleJobSeeker})

	assert.False(t, applied)
	assert.Nil(t, f.ctrl.Session())
	assert.Nil(t, f.sessions.Stored())
	assert.Equal(t, view.Home, f.ctrl.CurrentView())
}

func TestController_ApplyProfile_CurrentGenerationApplies(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 17, Role: auth.RoleEmployer})
	gen := f.ctrl.Generation()

	applied := f.ctrl.ApplyProfile(context.Background(), gen,
		auth.Session{ID: 17, FullName: "Güncel Ad", Role: auth.RoleEmployer})

	assert.True(t, applied)
	require.NotNil(t, f.ctrl.Session())
	assert.Equal(t, "Güncel Ad", f.ctrl.Session().FullName)
	require.NotNil(t, f.sessions.Stored())
	assert.Equal(t, "Güncel Ad", f.sessions.Stored().FullName, "persisted copy is refreshed")
}

func TestController_ApplyProfile_NewLoginInvalidatesOldFetch(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 18, Role: auth.RoleJobSeeker})
	gen := f.ctrl.Generation()

	// A fresh login advances the generation past the in-flight fetch.
	f.ctrl.OnLoginSuccess(context.Background(), auth.Session{ID: 19, Role: auth.RoleEmployer})

	applied := f.ctrl.ApplyProfile(context.Background(), gen,
		auth.Session{ID: 18, FullName: "Eski Kullanıcı", Role: auth.RoleJobSeeker})

	assert.False(t, applied)
	require.NotNil(t, f.ctrl.Session())
	assert.Equal(t, int64(19), f.ctrl.Session().ID)
}

// blockingSessionStore parks inside Save until released, so a test can
// schedule another controller call while a persist is in progress.
type blockingSessionStore struct {
	*mocks.MemorySessionStore
	saveEntered chan struct{}
	release     chan struct{}
}

func (b *blockingSessionStore) Save(ctx context.Context, sess auth.Session) error {
	close(b.saveEntered)
	<-b.release
	return b.MemorySessionStore.Save(ctx, sess)
}

// A logout that arrives while a profile refresh is persisting must not
// be overwritten by that persist: the store has to end up empty, or the
// next start would restore a logged-out user.
func TestController_LogoutDuringProfilePersistLeavesStoreEmpty(t *testing.T) {
	sessions := &blockingSessionStore{
		MemorySessionStore: mocks.NewMemorySessionStore(),
		saveEntered:        make(chan struct{}),
		release:            make(chan struct{}),
	}
	require.NoError(t, sessions.MemorySessionStore.Save(context.Background(),
		auth.Session{ID: 30, Role: auth.RoleJobSeeker}))

	ctrl := NewController(ControllerOptions{Sessions: sessions, Auth: &mocks.StubAuthAPI{}})
	ctrl.Start(context.Background())
	gen := ctrl.Generation()

	applyDone := make(chan bool)
	go func() {
		applyDone <- ctrl.ApplyProfile(context.Background(), gen,
			auth.Session{ID: 30, FullName: "Hayalet", Role: auth.RoleJobSeeker})
	}()

	<-sessions.saveEntered
	logoutDone := make(chan struct{})
	go func() {
		// Blocks on the controller lock until the persist completes,
		// then clears the store strictly after the write.
		ctrl.OnLogout(context.Background())
		close(logoutDone)
	}()
	close(sessions.release)

	assert.True(t, <-applyDone, "the refresh was current when it was checked")
	<-logoutDone

	assert.Nil(t, ctrl.Session())
	assert.Nil(t, sessions.Stored(), "nothing may re-persist a session after logout")
	assert.Equal(t, view.Home, ctrl.CurrentView())
}

func TestController_SessionGenerationIsOneSnapshot(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 31, Role: auth.RoleEmployer})

	sess, gen := f.ctrl.SessionGeneration()
	require.NotNil(t, sess)
	assert.Equal(t, int64(31), sess.ID)
	assert.Equal(t, f.ctrl.Generation(), gen)

	f.ctrl.OnLogout(context.Background())
	sess, gen = f.ctrl.SessionGeneration()
	assert.Nil(t, sess)
	assert.Equal(t, f.ctrl.Generation(), gen, "guests still observe the advanced counter")
}

func TestController_SessionReturnsCopy(t *testing.T) {
	f := newControllerFixture(t, &auth.Session{ID: 20, FullName: "Asıl", Role: auth.RoleJobSeeker})

	snap := f.ctrl.Session()
	require.NotNil(t, snap)
	snap.FullName = "Değiştirilmiş"

	assert.Equal(t, "Asıl", f.ctrl.Session().FullName,
		"screens get snapshots, never write access")
}
