package export

import (
	"bytes"
	"testing"

	"github.com/foodgram/backend/internal/services"
)

func items(n int) []services.ReportItem {
	out := make([]services.ReportItem, n)
	for i := range out {
		out[i] = services.ReportItem{Index: i + 1, Name: "item", Amount: 1, Unit: "g"}
	}
	return out
}

func TestSplitPages(t *testing.T) {
	cases := []struct {
		items    int
		perPage  int
		wantLens []int
	}{
		{0, 30, nil},
		{5, 30, []int{5}},
		{30, 30, []int{30}},
		{31, 30, []int{30, 1}},
		{65, 30, []int{30, 30, 5}},
		{5, 2, []int{2, 2, 1}},
		{5, 0, []int{5}}, // non-positive falls back to the default
	}
	for _, tc := range cases {
		pages := SplitPages(items(tc.items), tc.perPage)
		if len(pages) != len(tc.wantLens) {
			t.Fatalf("items=%d per=%d: %d pages, want %d", tc.items, tc.perPage, len(pages), len(tc.wantLens))
		}
		for i, want := range tc.wantLens {
			if len(pages[i]) != want {
				t.Fatalf("items=%d per=%d page %d: len %d, want %d", tc.items, tc.perPage, i, len(pages[i]), want)
			}
		}
	}
}

func TestLine_Format(t *testing.T) {
	got := Line(services.ReportItem{Index: 3, Name: "Сахар", Amount: 250, Unit: "г"})
	want := "3. Сахар — 250 г"
	if got != want {
		t.Fatalf("Line = %q; want %q", got, want)
	}
}

func TestShoppingListPDF_ProducesDocument(t *testing.T) {
	report := &services.Report{
		Title: services.ReportTitle,
		Items: items(35), // spills onto a second page at 30 lines
	}
	out, err := ShoppingListPDF(report, 30)
	if err != nil {
		t.Fatalf("ShoppingListPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header")
	}
	// Two pages in the page tree.
	if !bytes.Contains(out, []byte("/Count 2")) {
		t.Fatalf("expected a two-page document")
	}
}
