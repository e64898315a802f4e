package client

import (
	"reflect"
	"testing"
)

func filterNames(items []Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func TestFilter(t *testing.T) {
	u1 := "u1"
	items := []Item{
		{ID: "1", Name: "Milk", Bought: false},
		{ID: "2", Name: "Eggs", Bought: true, BoughtBy: &u1},
		{ID: "3", Name: "Almond Milk", Bought: true, BoughtBy: &u1},
		{ID: "4", Name: "Bread", Bought: false},
	}

	tests := []struct {
		name   string
		search string
		status StatusFilter
		want   []string
	}{
		{"all", "", FilterAll, []string{"Milk", "Eggs", "Almond Milk", "Bread"}},
		{"pending", "", FilterPending, []string{"Milk", "Bread"}},
		{"bought", "", FilterBought, []string{"Eggs", "Almond Milk"}},
		{"search", "milk", FilterAll, []string{"Milk", "Almond Milk"}},
		{"search case insensitive", "MILK", FilterAll, []string{"Milk", "Almond Milk"}},
		{"search trims whitespace", "  milk  ", FilterAll, []string{"Milk", "Almond Milk"}},
		{"search plus status", "milk", FilterBought, []string{"Almond Milk"}},
		{"no match", "caviar", FilterAll, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterNames(Filter(items, tt.search, tt.status))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "Milk"},
		{ID: "2", Name: "Eggs"},
	}

	Filter(items, "eggs", FilterAll)

	if items[0].Name != "Milk" || items[1].Name != "Eggs" {
		t.Error("input slice was modified")
	}
}

func TestFilterEmptyInput(t *testing.T) {
	if got := Filter(nil, "milk", FilterPending); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
