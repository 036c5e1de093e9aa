package store

import (
	"sort"

	"fleetcheck/models"
)

// UnionMerge reconciles a pulled collection into the local one. A remote
// record whose id is unknown locally is appended; a known id is replaced by
// the remote copy. The result is ordered newest first by createdAt, ties
// keeping their merged order. Neither input is modified.
func UnionMerge(local, remote []models.Report) []models.Report {
	merged := make([]models.Report, 0, len(local)+len(remote))
	index := make(map[string]int, len(local)+len(remote))

	for _, r := range local {
		if i, ok := index[r.ID]; ok {
			merged[i] = r.Clone()
			continue
		}
		index[r.ID] = len(merged)
		merged = append(merged, r.Clone())
	}
	for _, r := range remote {
		if r.ID == "" {
			continue
		}
		if i, ok := index[r.ID]; ok {
			merged[i] = r.Clone()
			continue
		}
		index[r.ID] = len(merged)
		merged = append(merged, r.Clone())
	}

	SortNewestFirst(merged)
	return merged
}

// SortNewestFirst orders reports by createdAt, descending, in place.
func SortNewestFirst(reports []models.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}
