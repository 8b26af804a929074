package loader

import (
	"regexp"

	"github.com/pable/go-gps-metrics/internal/model"
)

// Session types are free text from the tracking platform. Official fixtures
// contain "Match"; training days relative to a match ("Match Day -1",
// "Match Day +2") and friendlies labelled the same way are excluded.
const (
	OfficialMatchPattern = `(?i)match`
	MatchDayPattern      = `(?i)day [-+]`
)

var (
	officialMatchRe = regexp.MustCompile(OfficialMatchPattern)
	matchDayRe      = regexp.MustCompile(MatchDayPattern)
)

// IsOfficialMatch reports whether a session type denotes an official match.
func IsOfficialMatch(sessionType string) bool {
	return officialMatchRe.MatchString(sessionType) && !matchDayRe.MatchString(sessionType)
}

// FilterOfficialMatches returns the records whose session type is an official
// match, preserving order. Filtering an already filtered slice is a no-op.
func FilterOfficialMatches(records []model.SessionRecord) []model.SessionRecord {
	var out []model.SessionRecord
	for _, r := range records {
		if IsOfficialMatch(r.SessionType) {
			out = append(out, r)
		}
	}
	return out
}

// OfficialMatches applies FilterOfficialMatches to a dataset.
func OfficialMatches(ds *model.Dataset) *model.Dataset {
	return ds.WithRecords(FilterOfficialMatches(ds.Records))
}
