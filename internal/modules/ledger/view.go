package ledger

import (
	"sort"
	"strings"
)

// View computes the derived display projection of a store snapshot.
//
// It is a pure function: inputs are never mutated and the result is a fresh
// slice. The steps run in a fixed order because the tie-break contract
// depends on it:
//
//  1. case-insensitive substring match of the search text against the
//     description (empty search matches everything)
//  2. type filter, when one is set
//  3. stable sort, most recent date first; records sharing a date keep
//     their relative order from the filtered sequence
func View(snapshot []Transaction, q Query) []Transaction {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	result := make([]Transaction, 0, len(snapshot))
	for _, record := range snapshot {
		if search != "" && !strings.Contains(strings.ToLower(record.Description), search) {
			continue
		}
		if q.Type != nil && record.Type != *q.Type {
			continue
		}
		result = append(result, record)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})

	return result
}
