package service

import (
	"github.com/isbul/app-core/internal/domain/auth"
	"github.com/isbul/app-core/internal/domain/view"
)

// Tab is one bottom-navigation item.
type Tab struct {
	Key    view.View
	Label  string
	Active bool
}

// Labels are the client's display strings; the backend never sees them.
const (
	labelHome           = "İlanlar"
	labelMyApplications = "Başvurularım"
	labelFavorites      = "Favorilerim"
	labelMyAds          = "İlanlarım"
	labelAddAd          = "İlan Ekle"
	labelProfile        = "Profilim"
	labelLogin          = "Giriş Yap"
)

// TabBarVisible reports whether the bottom bar is shown on v.
func TabBarVisible(v view.View) bool {
	switch v {
	case view.Home, view.MyApplications, view.Favorites, view.Profile, view.MyAds:
		return true
	}
	return false
}

// TabsFor derives the ordered bottom-navigation items for the acting
// session: home first, the role's own tabs in the middle, and a
// trailing identity tab (profile when authenticated, login otherwise).
func TabsFor(s *auth.Session, current view.View) []Tab {
	tabs := []Tab{{Key: view.Home, Label: labelHome}}

	role, authed := auth.ActingRole(s)
	switch {
	case authed && role == auth.RoleJobSeeker:
		tabs = append(tabs,
			Tab{Key: view.MyApplications, Label: labelMyApplications},
			Tab{Key: view.Favorites, Label: labelFavorites},
		)
	case authed && role == auth.RoleEmployer:
		tabs = append(tabs,
			Tab{Key: view.MyAds, Label: labelMyAds},
			Tab{Key: view.AddAd, Label: labelAddAd},
		)
	}

	if authed {
		tabs = append(tabs, Tab{Key: view.Profile, Label: labelProfile})
	} else {
		tabs = append(tabs, Tab{Key: view.Login, Label: labelLogin})
	}

	for i := range tabs {
		tabs[i].Active = tabs[i].Key == current
	}
	return tabs
}
