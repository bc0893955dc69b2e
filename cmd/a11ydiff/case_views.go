package main

import (
	"fmt"
	"strconv"
	"strings"

	"a11ydiff/internal/detect"
	"a11ydiff/internal/results"
)

var caseHeaders = []string{"Case", "Status", "SL", "D", "A", "M", "CA", "Detail"}

var caseAligns = []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}

func caseRows(cases []results.Case) [][]string {
	rows := make([][]string, 0, len(cases))
	for _, c := range cases {
		row := []string{c.App + "/" + c.Name, string(c.Status)}
		for _, cat := range detect.Categories {
			row = append(row, strconv.Itoa(c.Counts.Of(cat)))
		}
		rows = append(rows, append(row, caseDetail(c)))
	}
	return rows
}

func caseDetail(c results.Case) string {
	switch {
	case c.Error != "":
		return truncate(c.Error, 60)
	case c.SkipReason != "":
		return c.SkipReason
	case c.ReportDir != "":
		return c.ReportDir
	default:
		return ""
	}
}

var findingHeaders = []string{"Category", "#", "Resource ID", "Text", "Bounds", "Focus", "Direction"}

var findingAligns = []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}

func findingRows(findings []results.Finding) [][]string {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rec := f.Record
		label := rec.Text
		if label == "" {
			label = rec.ContentDescription
		}
		direction := ""
		if f.Category == detect.CategoryMoving {
			direction = rec.Direction
		}
		rows = append(rows, []string{
			f.Category.String(),
			strconv.Itoa(f.Position + 1),
			rec.ResourceID,
			truncate(strings.ReplaceAll(label, "\n", " "), 40),
			rec.Bounds,
			rec.FocusStatus,
			direction,
		})
	}
	return rows
}

// parseCategories resolves --category values, accepting names or the short
// codes used in overlay file names.
func parseCategories(values []string) ([]detect.Category, error) {
	var out []detect.Category
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			cat, ok := detect.ParseCategory(part)
			if !ok {
				cat, ok = categoryByCode(part)
			}
			if !ok {
				return nil, fmt.Errorf("unknown category %q", part)
			}
			out = append(out, cat)
		}
	}
	return out, nil
}

func categoryByCode(code string) (detect.Category, bool) {
	switch strings.ToLower(code) {
	case "sl":
		return detect.CategoryShortLived, true
	case "d":
		return detect.CategoryDisappearing, true
	case "a":
		return detect.CategoryAppearing, true
	case "m":
		return detect.CategoryMoving, true
	case "ca":
		return detect.CategoryAttributeChanged, true
	}
	return 0, false
}

func filterFindings(findings []results.Finding, only []detect.Category) []results.Finding {
	if len(only) == 0 {
		return findings
	}
	var out []results.Finding
	for _, f := range findings {
		for _, c := range only {
			if f.Category == c {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
