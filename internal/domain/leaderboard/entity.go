// Package leaderboard contains the read-only ranked projection over
// accounts. It never mutates anything; points live in the account domain.
package leaderboard

import "sort"

// DefaultLimit is the number of entries shown when no limit is given.
const DefaultLimit = 10

// Entry is one row of the leaderboard projection.
type Entry struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	Grade       int    `json:"grade"`
	School      string `json:"school"`
	Points      int    `json:"points"`
	Rank        int    `json:"rank"`
}

// SortEntries orders entries by points descending, breaking ties by
// account ID ascending so repeated reads always return the same order,
// and assigns 1-based ranks. The persistence layer applies the same
// ordering in SQL; this keeps cached projections consistent with it.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].AccountID < entries[j].AccountID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
