package client

import "strings"

// StatusFilter narrows the item list by bought state.
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterPending
	FilterBought
)

// Filter applies the ephemeral view filters to a snapshot: a
// case-insensitive substring match on the item name, then the bought-state
// filter. The input is never modified and its order is preserved.
func Filter(items []Item, search string, status StatusFilter) []Item {
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		switch status {
		case FilterPending:
			if item.Bought {
				continue
			}
		case FilterBought:
			if !item.Bought {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}
