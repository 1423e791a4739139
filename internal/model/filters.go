package model

import "time"

// FilterKind names one of the filter dimensions a dashboard sheet or
// query can support.
type FilterKind string

const (
	FilterDate     FilterKind = "date"
	FilterMedia    FilterKind = "media"
	FilterCampaign FilterKind = "campaign"
)

// FilterSet holds the session-scoped filter selections. Start after end
// is not rejected here; a query against an inverted range simply returns
// no rows downstream.
type FilterSet struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Media     []string  `json:"media"`
	Campaigns []string  `json:"campaigns"`
	Sheet     string    `json:"sheet"`
}

// HasDateRange reports whether both date bounds are set.
func (f FilterSet) HasDateRange() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}

// FilterFlags toggles which filter dimensions are applied to a query.
type FilterFlags struct {
	Date     bool `json:"date"`
	Media    bool `json:"media"`
	Campaign bool `json:"campaign"`
}

// AllFilters enables every filter dimension.
func AllFilters() FilterFlags {
	return FilterFlags{Date: true, Media: true, Campaign: true}
}
