package view

import (
	"github.com/isbul/app-core/internal/domain/listing"
)

// Params is the ephemeral payload carried into a view on transition.
// It is addressed to exactly one view, never persisted, and replaced
// wholesale on every transition that supplies values. Fields a
// transition did not supply read as absent.
type Params struct {
	ListingID       *int64
	ListingTitle    string
	SelectedPackage *listing.Package
	DraftListing    *listing.Listing
}

// IsZero reports whether no field was supplied.
func (p Params) IsZero() bool {
	return p.ListingID == nil && p.ListingTitle == "" &&
		p.SelectedPackage == nil && p.DraftListing == nil
}
