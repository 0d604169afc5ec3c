package service

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/isbul/app-core/internal/domain/auth"
	"github.com/isbul/app-core/internal/ports"
)

// ProfileRefresherOptions groups dependencies for ProfileRefresher.
type ProfileRefresherOptions struct {
	Controller *Controller
	API        ports.ProfileAPI
	Logger     *slog.Logger // defaults to slog.Default()
}

// ProfileRefresher re-fetches the acting user's profile and applies the
// result through the controller's generation check, so a fetch that
// completes after a logout or a fresh login is discarded instead of
// resurrecting stale identity. Concurrent refreshes for the same user
// collapse into one backend call.
type ProfileRefresher struct {
	ctrl   *Controller
	api    ports.ProfileAPI
	logger *slog.Logger
	group  singleflight.Group
}

// NewProfileRefresher constructs a refresher bound to ctrl.
func NewProfileRefresher(opts ProfileRefresherOptions) *ProfileRefresher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileRefresher{
		ctrl:   opts.Controller,
		api:    opts.API,
		logger: logger,
	}
}

// Refresh fetches the current profile and applies it unless the session
// generation moved while the fetch was in flight. It reports whether
// the result was applied; guests and fetch failures report false.
func (r *ProfileRefresher) Refresh(ctx context.Context) bool {
	// The identity and the generation tag are captured atomically; the
	// tag is what the apply step checks against, so it must belong to
	// the same session the fetch is issued for.
	sess, gen := r.ctrl.SessionGeneration()
	if sess == nil {
		return false
	}

	key := strconv.FormatInt(sess.ID, 10)
	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.api.Fetch(ctx, sess.ID)
	})
	if err != nil {
		r.logger.WarnContext(ctx, "profile refresh failed", "user_id", sess.ID, "error", err)
		return false
	}

	updated, ok := v.(auth.Session)
	if !ok {
		return false
	}
	applied := r.ctrl.ApplyProfile(ctx, gen, updated)
	if !applied {
		r.logger.DebugContext(ctx, "stale profile result discarded", "user_id", sess.ID)
	}
	return applied
}
