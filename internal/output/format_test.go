package output

import (
	"bytes"
	"testing"

	"taskprobe/internal/service"
)

func TestFormatBanner(t *testing.T) {
	var buf bytes.Buffer
	FormatBanner(&buf, "Hello")

	rule := "=================================================="
	expected := rule + "\nHello\n" + rule + "\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatStepHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatStepHeader(&buf, 2, "Testing GET /tasks - Get All Tasks")

	expected := "\n2. Testing GET /tasks - Get All Tasks\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		body     string
		expected string
	}{
		{`{"success":true,"count":3,"tasks":[]}`, "Tasks Count: 3\n"},
		{`{"success":true,"tasks":[]}`, "Tasks Count: null\n"},
		{`{"count":null}`, "Tasks Count: null\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		FormatCount(&buf, []byte(tt.body))
		if buf.String() != tt.expected {
			t.Errorf("body %s: expected %q, got %q", tt.body, tt.expected, buf.String())
		}
	}
}

func TestFormatResponse(t *testing.T) {
	var buf bytes.Buffer
	FormatResponse(&buf, []byte(`{"success":true,"task":{"_id":"a1","title":"T"}}`))

	expected := "Response: {\n" +
		"  \"success\": true,\n" +
		"  \"task\": {\n" +
		"    \"_id\": \"a1\",\n" +
		"    \"title\": \"T\"\n" +
		"  }\n" +
		"}\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatTask(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, service.Task{ID: "abc", Title: "Line one\nline two", Description: "Details"})
	FormatTask(&buf, service.Task{ID: "def", Title: "  "})

	expected := "abc  Line one line two\n    Details\n" +
		"def  (untitled)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatCheck(t *testing.T) {
	var buf bytes.Buffer
	FormatCheck(&buf, "count-delta", true, "")
	FormatCheck(&buf, "delete-missing", false, "expected not found")

	expected := "PASS count-delta\nFAIL delete-missing: expected not found\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}
