package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	if got := AtoiDefault("42", 0); got != 42 {
		t.Fatalf("AtoiDefault(\"42\") = %d; want 42", got)
	}
	if got := AtoiDefault("", 10); got != 10 {
		t.Fatalf("AtoiDefault(\"\") = %d; want 10", got)
	}
	if got := AtoiDefault("x", 5); got != 5 {
		t.Fatalf("AtoiDefault(\"x\") = %d; want 5", got)
	}
	if got := AtoiDefault("-3", 0); got != -3 {
		t.Fatalf("AtoiDefault(\"-3\") = %d; want -3", got)
	}
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		page, limit string
		wantPage    int
		wantLimit   int
	}{
		{"", "", 1, 6},
		{"3", "10", 3, 10},
		{"0", "0", 1, 6},
		{"-2", "-9", 1, 6},
		{"abc", "def", 1, 6},
	}
	for _, tc := range cases {
		p := ParsePage(tc.page, tc.limit, 6)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
			t.Fatalf("ParsePage(%q, %q) = %+v; want page=%d limit=%d",
				tc.page, tc.limit, p, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestPageParams_Offset(t *testing.T) {
	if got := (PageParams{Page: 1, Limit: 6}).Offset(); got != 0 {
		t.Fatalf("Offset page 1 = %d; want 0", got)
	}
	if got := (PageParams{Page: 4, Limit: 6}).Offset(); got != 18 {
		t.Fatalf("Offset page 4 = %d; want 18", got)
	}
}

func TestNewPage_Links(t *testing.T) {
	base := "/api/recipes"

	// middle page: both links present
	pg := NewPage(base, PageParams{Page: 2, Limit: 6}, 20, nil)
	if pg.Count != 20 {
		t.Fatalf("Count = %d; want 20", pg.Count)
	}
	if pg.Next == nil || *pg.Next != "/api/recipes?page=3&limit=6" {
		t.Fatalf("Next = %v", pg.Next)
	}
	if pg.Previous == nil || *pg.Previous != "/api/recipes?page=1&limit=6" {
		t.Fatalf("Previous = %v", pg.Previous)
	}

	// first page of one: no links
	pg = NewPage(base, PageParams{Page: 1, Limit: 6}, 5, nil)
	if pg.Next != nil || pg.Previous != nil {
		t.Fatalf("expected no links, got next=%v prev=%v", pg.Next, pg.Previous)
	}

	// last page: previous only
	pg = NewPage(base, PageParams{Page: 4, Limit: 6}, 20, nil)
	if pg.Next != nil {
		t.Fatalf("Next = %v; want nil", pg.Next)
	}
	if pg.Previous == nil {
		t.Fatalf("Previous = nil; want link")
	}

	// boundary: offset+limit == count means no next
	pg = NewPage(base, PageParams{Page: 2, Limit: 6}, 12, nil)
	if pg.Next != nil {
		t.Fatalf("Next = %v; want nil at exact boundary", pg.Next)
	}
}
