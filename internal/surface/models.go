// Package surface composes the catalog adapter, the merge engine, and the
// ranking policy into the four read surfaces: Home, Search, Trips-list, and
// Blogs-list. Builders are thin; every algorithmic decision lives in
// internal/rank.
package surface

import (
	"wayfarer/internal/catalog"
)

// Section is one ranked list plus the diagnostic labels describing how the
// order was derived. Mode and reason come from the ranking policy and pass
// through unchanged.
type Section struct {
	Items  []catalog.Item `json:"items"`
	Mode   string         `json:"mode"`
	Reason string         `json:"reason"`
}

// HomePayload is the Home surface response: one ranked section per content
// type.
type HomePayload struct {
	Trips    Section `json:"trips"`
	Profiles Section `json:"users"`
	Blogs    Section `json:"blogs"`
}

// SearchType is the Search surface type filter.
type SearchType string

const (
	SearchAll   SearchType = "all"
	SearchTrips SearchType = "trips"
	SearchUsers SearchType = "users"
	SearchBlogs SearchType = "blogs"
)

// ParseSearchType normalizes the type query parameter. Unsupported values
// fall back to "all" rather than erroring.
func ParseSearchType(raw string) SearchType {
	switch SearchType(raw) {
	case SearchTrips, SearchUsers, SearchBlogs:
		return SearchType(raw)
	default:
		return SearchAll
	}
}

// SearchPayload is the Search surface response. Sections are present only
// for the types selected by the active filter.
type SearchPayload struct {
	Query      string   `json:"query"`
	ActiveType string   `json:"active_type"`
	HasQuery   bool     `json:"has_query"`
	Trips      *Section `json:"trips,omitempty"`
	Users      *Section `json:"users,omitempty"`
	Blogs      *Section `json:"blogs,omitempty"`
}

// ParseTripTab normalizes the tab query parameter. Unsupported values fall
// back to "upcoming"; member-scoped tabs fall back to "upcoming" for guests.
func ParseTripTab(raw string, isMember bool) catalog.TripTab {
	tab := catalog.TripTab(raw)
	switch tab {
	case catalog.TabUpcoming, catalog.TabPast:
		return tab
	case catalog.TabHosting, catalog.TabSaved:
		if isMember {
			return tab
		}
		return catalog.TabUpcoming
	default:
		return catalog.TabUpcoming
	}
}

// TripsPayload is the Trips-list surface response.
type TripsPayload struct {
	Section
	Tab    string         `json:"tab"`
	Source string         `json:"source"`
	Counts map[string]int `json:"counts"`
}

// BlogsPayload is the Blogs-list surface response.
type BlogsPayload struct {
	Section
	Source string `json:"source"`
}
