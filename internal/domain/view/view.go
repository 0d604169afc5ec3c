package view

// Package view defines the screen states of the client and the static
// tables that govern them: which roles may enter each view and which
// single view each one backs out to. It is pure; the controller in
// internal/service is the only writer of the current view.

import (
	"github.com/isbul/app-core/internal/domain/auth"
)

// View is a named screen state. The set of views is closed; Known
// reports membership.
type View string

const (
	Home                   View = "home"
	Login                  View = "login"
	Register               View = "register"
	AdminPanel             View = "admin-panel"
	Detail                 View = "detail"
	Profile                View = "profile"
	MyApplications         View = "my-applications"
	Favorites              View = "favorites"
	MyAds                  View = "my-ads"
	AddAd                  View = "add-ad"
	EditAd                 View = "edit-ad"
	ApplicationsForListing View = "applications-for-listing"
	Payment                View = "payment"
)

// backTargets maps every view to the one view it backs out to. Back
// navigation is a fixed directed edge per view, not a history stack;
// the map doubles as the registry of known views.
var backTargets = map[View]View{
	Home:                   Home,
	Login:                  Home,
	Register:               Login,
	AdminPanel:             AdminPanel,
	Detail:                 Home,
	Profile:                Home,
	MyApplications:         Home,
	Favorites:              Home,
	MyAds:                  Home,
	AddAd:                  MyAds,
	EditAd:                 MyAds,
	ApplicationsForListing: MyAds,
	Payment:                MyAds,
}

// All returns every defined view in a stable order.
func All() []View {
	return []View{
		Home, Login, Register, AdminPanel, Detail, Profile,
		MyApplications, Favorites, MyAds, AddAd, EditAd,
		ApplicationsForListing, Payment,
	}
}

// Known reports whether v is a defined view.
func (v View) Known() bool {
	_, ok := backTargets[v]
	return ok
}

// BackTarget returns the single static view v backs out to.
// Unknown views back out to Home.
func BackTarget(v View) View {
	if t, ok := backTargets[v]; ok {
		return t
	}
	return Home
}

// CanEnter reports whether the acting session may enter v. Guests are
// sessions that are absent or carry an unrecognized role token. The
// switch is exhaustive over the view set; anything unlisted is denied.
func CanEnter(v View, s *auth.Session) bool {
	role, authed := auth.ActingRole(s)
	switch v {
	case Home, Detail:
		return true
	case Login, Register:
		return !authed
	case AdminPanel:
		return authed && role == auth.RoleAdmin
	case Profile:
		return authed
	case MyApplications, Favorites:
		return authed && role == auth.RoleJobSeeker
	case MyAds, AddAd, EditAd, ApplicationsForListing, Payment:
		return authed && role == auth.RoleEmployer
	}
	return false
}

// LandingFor returns the view a freshly authenticated (or restored)
// session lands on: admins go straight to the admin panel, everyone
// else to home.
func LandingFor(s *auth.Session) View {
	if s != nil && s.IsAdmin() {
		return AdminPanel
	}
	return Home
}
