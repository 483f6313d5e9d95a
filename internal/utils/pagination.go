// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"fmt"
	"strconv"
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageParams holds normalized pagination inputs.
type PageParams struct {
	Page  int // 1-based page number
	Limit int // page size
}

// Offset returns the row offset for the page.
func (p PageParams) Offset() int { return (p.Page - 1) * p.Limit }

// ParsePage normalizes raw page/limit query values. Empty or malformed
// values fall back to page 1 and defaultLimit; non-positive results are
// clamped the same way.
func ParsePage(pageStr, limitStr string, defaultLimit int) PageParams {
	page := AtoiDefault(pageStr, 1)
	if page < 1 {
		page = 1
	}
	limit := AtoiDefault(limitStr, defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	return PageParams{Page: page, Limit: limit}
}

// Page is the standard paginated response envelope: a total count, links to
// the neighbouring pages (null when absent), and the page contents.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPage assembles the envelope. basePath is the absolute request path
// without query string; neighbour links preserve the limit parameter.
func NewPage(basePath string, p PageParams, count int64, results interface{}) Page {
	out := Page{Count: count, Results: results}
	if int64(p.Offset()+p.Limit) < count {
		next := pageURL(basePath, p.Page+1, p.Limit)
		out.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(basePath, p.Page-1, p.Limit)
		out.Previous = &prev
	}
	return out
}

func pageURL(basePath string, page, limit int) string {
	return fmt.Sprintf("%s?page=%d&limit=%d", basePath, page, limit)
}
