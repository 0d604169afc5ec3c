package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/isbul/app-core/internal/domain/auth"
	"github.com/isbul/app-core/internal/domain/view"
	"github.com/isbul/app-core/internal/ports"
)

// Navigator is the handle screens use to request transitions. Screens
// call back into the controller only through this interface; they never
// touch controller internals.
type Navigator interface {
	Navigate(target view.View, params *view.Params)
	GoBack()
}

// ControllerOptions groups dependencies for Controller.
type ControllerOptions struct {
	Sessions ports.SessionStore
	Auth     ports.AuthAPI
	Logger   *slog.Logger // defaults to slog.Default()
}

// Controller is the view/session state machine. It exclusively owns the
// current view, the current session, and the pending navigation
// parameters; screens obtain snapshots, never write access.
//
// The source platform ran everything on one UI event loop. Go has no
// ambient event loop, so the controller serializes its state behind a
// mutex and applies asynchronous completions through generation-checked
// methods: every async operation captures the generation when issued,
// and its result is discarded if login or logout advanced the counter
// in the meantime. Session-store writes run inside the same critical
// section as the state change they belong to, so the persisted copy can
// never disagree with the in-memory session about whether the user is
// logged in.
type Controller struct {
	sessions ports.SessionStore
	auth     ports.AuthAPI
	logger   *slog.Logger

	mu         sync.Mutex
	current    view.View
	session    *auth.Session
	generation uint64
	params     *ParameterBus
}

var _ Navigator = (*Controller)(nil)

// NewController constructs a controller at the initial view (home,
// guest). Call Start to restore a persisted session.
func NewController(opts ControllerOptions) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		sessions: opts.Sessions,
		auth:     opts.Auth,
		logger:   logger,
		current:  view.Home,
		params:   NewParameterBus(),
	}
}

// Start loads the persisted identity and picks the landing view: admins
// go straight to the admin panel, everyone else to home. Load failures
// have already been downgraded to guest by the session store; any error
// that still reaches here is treated the same way.
func (c *Controller) Start(ctx context.Context) {
	sess, err := c.sessions.Load(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "restore session failed, starting as guest", "error", err)
		sess = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = sess
	c.current = view.LandingFor(sess)
}

// Navigate requests a transition to target. An unknown view or a role
// ineligible for it falls back to home silently; this is a guard
// redirect, not an error the user sees. On success the supplied params
// are addressed to target (or the bus is cleared when none are
// supplied) and target becomes the current view.
func (c *Controller) Navigate(target view.View, params *view.Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigateLocked(target, params)
}

func (c *Controller) navigateLocked(target view.View, params *view.Params) {
	if !target.Known() || !view.CanEnter(target, c.session) {
		c.logger.Debug("navigation rejected, falling back to home",
			slog.String("target", string(target)),
			slog.String("from", string(c.current)),
		)
		c.params.Clear()
		c.current = view.Home
		return
	}

	if params != nil {
		c.params.Set(target, *params)
	} else {
		c.params.Clear()
	}
	c.current = target
}

// GoBack follows the current view's single static back edge. The target
// is still run through the eligibility guard so a back edge can never
// outlive the session that made it reachable.
func (c *Controller) GoBack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigateLocked(view.BackTarget(c.current), nil)
}

// Login authenticates through the backend and, on success, installs the
// session. A rejection propagates to the caller unchanged and leaves
// the controller state untouched: the login screen stays up and tells
// the user to retry.
func (c *Controller) Login(ctx context.Context, creds ports.Credentials) error {
	sess, err := c.auth.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	c.OnLoginSuccess(ctx, sess)
	return nil
}

// Register creates an account through the backend and, on success,
// moves a guest to the login view. Failures propagate like login
// failures.
func (c *Controller) Register(ctx context.Context, reg ports.Registration) error {
	if err := c.auth.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigateLocked(view.Login, nil)
	return nil
}

// OnLoginSuccess installs sess as the authenticated identity: the
// generation advances (invalidating in-flight async results), the
// session is persisted, pending params are dropped, and the view moves
// to the role's landing view. Persistence failures are logged and
// swallowed; the in-memory session stays authoritative for this run.
func (c *Controller) OnLoginSuccess(ctx context.Context, sess auth.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if err := c.sessions.Save(ctx, sess); err != nil {
		c.logger.WarnContext(ctx, "save session failed, continuing in memory", "error", err)
	}
	c.session = &sess
	c.params.Clear()
	c.current = view.LandingFor(c.session)
}

// OnLogout destroys the session: the generation advances, the backend
// is notified best-effort, the persisted identity is cleared, pending
// params are dropped, and the view returns to home. Logging out twice
// lands in the same state both times.
func (c *Controller) OnLogout(ctx context.Context) {
	if c.auth != nil {
		if err := c.auth.Logout(ctx); err != nil {
			c.logger.WarnContext(ctx, "backend logout failed", "error", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	// Clearing inside the critical section orders the store write after
	// any in-flight generation-checked Save; nothing can re-persist the
	// old identity once the counter moved.
	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.WarnContext(ctx, "clear persisted session failed", "error", err)
	}
	c.session = nil
	c.params.Clear()
	c.current = view.Home
}

// Generation returns the current session generation. Asynchronous
// operations capture it when issued and pass it back to ApplyProfile.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// ApplyProfile applies the result of a profile fetch issued under
// generation gen. A result that arrives after login or logout advanced
// the generation, or after the session is gone, is discarded silently.
// It reports whether the result was applied.
func (c *Controller) ApplyProfile(ctx context.Context, gen uint64, updated auth.Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || c.session == nil {
		return false
	}
	c.session = &updated

	// The persisted copy is refreshed inside the generation-checked
	// critical section: a logout arriving during this write blocks on
	// the mutex and runs its Clear strictly after it, so a stale session
	// can never be written back into the store.
	if err := c.sessions.Save(ctx, updated); err != nil {
		c.logger.WarnContext(ctx, "persist refreshed profile failed", "error", err)
	}
	return true
}

// CurrentView returns the active view.
func (c *Controller) CurrentView() view.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Session returns a copy of the current session, or nil for guests.
func (c *Controller) Session() *auth.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	cp := *c.session
	return &cp
}

// SessionGeneration returns the current session snapshot together with
// the generation it belongs to, taken under one lock. Async operations
// must use this pairing: capturing the two separately leaves a window
// where a login in between tags the old user's identity with the new
// generation.
func (c *Controller) SessionGeneration() (*auth.Session, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, c.generation
	}
	cp := *c.session
	return &cp, c.generation
}

// Params returns the payload addressed to the active view. Views only
// ever see params supplied by the transition that entered them.
func (c *Controller) Params() view.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params.Get(c.current)
}

// Tabs derives the bottom-navigation items for the current state.
func (c *Controller) Tabs() []Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TabsFor(c.session, c.current)
}

// TabBarVisible reports whether the bottom bar is shown on the active view.
func (c *Controller) TabBarVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TabBarVisible(c.current)
}
