// Package extraction turns normalized document text into categorized
// entity candidates. Matching is purely pattern-based: a value in any
// category is a candidate, not a verified identity.
package extraction

import (
	"regexp"
	"strings"

	"docintel/domain"
)

// Extractor bundles every compiled pattern. Building it once and sharing
// it across documents keeps Extract allocation-light and guarantees the
// same patterns for the whole session.
type Extractor struct {
	dateRe   *regexp.Regexp
	amountRe *regexp.Regexp
	emailRe  *regexp.Regexp
	phoneRe  *regexp.Regexp
	nameRe   *regexp.Regexp
	placeRe  *regexp.Regexp
	orgRe    *regexp.Regexp
}

func NewExtractor() *Extractor {
	return &Extractor{
		dateRe: regexp.MustCompile(
			`\b\d{1,2}[/-]\d{1,2}[/-](?:\d{4}|\d{2})\b`,
		),
		amountRe: regexp.MustCompile(
			`[£$€¥]\d+(?:,\d{3})*(?:\.\d{2})?`,
		),
		emailRe: regexp.MustCompile(
			`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
		),
		phoneRe: regexp.MustCompile(
			`\+?\d[\d\s().-]{7,14}\d`,
		),
		nameRe: regexp.MustCompile(
			`\b[A-Z][a-z]+ [A-Z][a-z]+\b`,
		),
		placeRe: regexp.MustCompile(
			`\b(?:in|at|near|from) ([A-Z][a-z]+(?: [A-Z][a-z]+)?)`,
		),
		orgRe: regexp.MustCompile(
			`\b(?:[A-Z][A-Za-z&]* )+(?:Ltd|Inc|LLC|Corp|Corporation|GmbH|PLC|SA)\b`,
		),
	}
}

// Extract is deterministic and side-effect free. Values keep
// first-occurrence order, duplicates included; empty text yields an
// EntitySet with every category empty.
func (e *Extractor) Extract(text string) domain.EntitySet {
	if text == "" {
		return domain.EntitySet{}
	}
	return domain.EntitySet{
		Dates:         e.dateRe.FindAllString(text, -1),
		Amounts:       e.amountRe.FindAllString(text, -1),
		Emails:        e.emailRe.FindAllString(text, -1),
		Phones:        e.phones(text),
		Names:         e.nameRe.FindAllString(text, -1),
		Places:        submatches(e.placeRe, text),
		Organizations: e.orgRe.FindAllString(text, -1),
	}
}

// phones keeps only matches with a plausible number of digits, which
// filters out dash-separated dates and long account numbers that share
// the raw token shape.
func (e *Extractor) phones(text string) []string {
	var out []string
	for _, m := range e.phoneRe.FindAllString(text, -1) {
		if n := digitCount(m); n >= 9 && n <= 15 {
			out = append(out, strings.TrimSpace(m))
		}
	}
	return out
}

func submatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
