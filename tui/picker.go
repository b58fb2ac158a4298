// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// applyFilter narrows the picker entries by fuzzy-matching the filter
// input against episode titles, best matches first.
func (b *statefulBubble) applyFilter() {
	query := b.filterC.Value()
	if query == "" {
		b.filtered = b.entries
		b.clampCursor()
		return
	}

	titles := make([]string, len(b.entries))
	for i, ep := range b.entries {
		titles[i] = ep.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	filtered := b.filtered[:0:0]
	for _, r := range ranks {
		filtered = append(filtered, b.entries[r.OriginalIndex])
	}
	b.filtered = filtered
	b.clampCursor()
}

func (b *statefulBubble) clampCursor() {
	if b.cursor >= len(b.filtered) {
		b.cursor = len(b.filtered) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}
