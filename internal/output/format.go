// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"taskprobe/internal/service"
)

const (
	// BannerWidth is the width of the run banner.
	BannerWidth = 50
)

var prettyOptions = &pretty.Options{Width: 80, Indent: "  "}

// FormatBanner prints a title between two rules of '='.
func FormatBanner(w io.Writer, title string) {
	rule := strings.Repeat("=", BannerWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

// FormatStepHeader formats a numbered step header preceded by a blank line.
// Format: "\n{N}. {TEXT}\n"
func FormatStepHeader(w io.Writer, num int, text string) {
	fmt.Fprintf(w, "\n%d. %s\n", num, text)
}

// FormatStatus formats a response status line.
func FormatStatus(w io.Writer, code int) {
	fmt.Fprintf(w, "Status Code: %d\n", code)
}

// FormatCount formats the "count" field of a list response.
// A missing count prints as null.
func FormatCount(w io.Writer, body []byte) {
	count := gjson.GetBytes(body, "count")
	value := "null"
	if count.Exists() {
		value = count.Raw
	}
	fmt.Fprintf(w, "Tasks Count: %s\n", value)
}

// FormatResponse formats a JSON body indented by two spaces.
func FormatResponse(w io.Writer, body []byte) {
	fmt.Fprintf(w, "Response: %s", pretty.PrettyOptions(body, prettyOptions))
}

// FormatTask formats a task line for the list command.
// Format: "{ID}  {TITLE}\n" followed by the indented description when present.
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%s  %s\n", task.ID, normalizeText(task.Title))
	if strings.TrimSpace(task.Description) != "" {
		fmt.Fprintf(w, "    %s\n", normalizeText(task.Description))
	}
}

// FormatTaskCount formats the count line of the list command.
func FormatTaskCount(w io.Writer, count int) {
	fmt.Fprintf(w, "count: %d\n", count)
}

// FormatCheck formats one property check result.
// Format: "PASS {NAME}" or "FAIL {NAME}: {DETAIL}"
func FormatCheck(w io.Writer, name string, passed bool, detail string) {
	if passed {
		fmt.Fprintf(w, "PASS %s\n", name)
		return
	}
	fmt.Fprintf(w, "FAIL %s: %s\n", name, detail)
}

// normalizeText normalizes a title or description for single-line display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}
