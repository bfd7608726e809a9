package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/amonks/taskboard/task"
)

func TestRenderTaskTOML_Create(t *testing.T) {
	content, err := RenderTaskTOML(DefaultCreateData("02/11/2026"))
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}

	if !strings.HasPrefix(content, `title = ""`) {
		t.Errorf("expected document to start with empty title, got %q", content)
	}
	if !strings.Contains(content, `due = "02/11/2026"`) {
		t.Error("expected default due date")
	}
	if !strings.Contains(content, `recurrence = "none" # none, daily, weekly, monthly, yearly`) {
		t.Error("expected recurrence with valid values comment")
	}
	if strings.Contains(content, "# editing") {
		t.Error("expected no ID comment for create")
	}
	if !strings.Contains(content, "\n---\n") {
		t.Error("expected frontmatter separator")
	}
}

func TestRenderTaskTOML_Update(t *testing.T) {
	existing := task.Task{
		ID:          "abc12345",
		Title:       `Say "hi"`,
		Due:         "03/01/2026",
		Description: "A test description",
		Recurrence:  task.RecurrenceWeekly,
	}

	content, err := RenderTaskTOML(DataFromTask(existing))
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}

	if !strings.HasPrefix(content, "# editing abc12345\n") {
		t.Errorf("expected ID comment first, got %q", content)
	}
	if !strings.Contains(content, `title = "Say \"hi\""`) {
		t.Error("expected quoted title")
	}
	if !strings.Contains(content, `recurrence = "weekly"`) {
		t.Error("expected weekly recurrence")
	}
	if !strings.HasSuffix(content, "---\nA test description\n") {
		t.Errorf("expected description body, got %q", content)
	}
}

func TestRenderedDocumentParsesBack(t *testing.T) {
	existing := task.Task{
		ID:          "abc12345",
		Title:       "Pay rent",
		Due:         "03/01/2026",
		Description: "line one\nline two",
	}

	content, err := RenderTaskTOML(DataFromTask(existing))
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}
	parsed, err := ParseTaskTOML(content)
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}

	if parsed.Title != "Pay rent" || parsed.Due != "03/01/2026" {
		t.Fatalf("expected fields to survive, got %+v", parsed)
	}
	if parsed.Recurrence != "none" {
		t.Fatalf("expected recurrence none, got %q", parsed.Recurrence)
	}
	if parsed.Description != "line one\nline two" {
		t.Fatalf("expected description to survive, got %q", parsed.Description)
	}
}

func TestParseTaskTOML_NormalizesRecurrence(t *testing.T) {
	parsed, err := ParseTaskTOML("title = \" Gym \"\ndue = \"02/12/2026\"\nrecurrence = \"DAILY\"\n")
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}
	if parsed.Title != "Gym" {
		t.Errorf("expected trimmed title, got %q", parsed.Title)
	}
	if parsed.Recurrence != "daily" {
		t.Errorf("expected daily, got %q", parsed.Recurrence)
	}
	if parsed.Description != "" {
		t.Errorf("expected empty description, got %q", parsed.Description)
	}
}

func TestParseTaskTOML_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing title",
			content: `due = "02/12/2026"`,
			wantErr: task.ErrEmptyTitle,
		},
		{
			name:    "bad due",
			content: "title = \"x\"\ndue = \"2026-02-12\"",
			wantErr: task.ErrInvalidDue,
		},
		{
			name:    "bad recurrence",
			content: "title = \"x\"\ndue = \"02/12/2026\"\nrecurrence = \"hourly\"",
			wantErr: task.ErrInvalidRecurrence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaskTOML(tt.content)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseTaskTOML_InvalidTOML(t *testing.T) {
	if _, err := ParseTaskTOML("title = \n---\nbody"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParsedTaskOptions(t *testing.T) {
	parsed := &ParsedTask{
		Title:       "Test",
		Due:         "02/12/2026",
		Recurrence:  "monthly",
		Description: "description",
	}

	add := parsed.AddOptions()
	if add.Title != "Test" || add.Recurrence != task.RecurrenceMonthly {
		t.Errorf("unexpected add options %+v", add)
	}

	edit := parsed.EditOptions()
	if edit.Title == nil || *edit.Title != "Test" {
		t.Errorf("expected title pointer, got %v", edit.Title)
	}
	if edit.Due == nil || *edit.Due != "02/12/2026" {
		t.Errorf("expected due pointer, got %v", edit.Due)
	}
	if edit.Recurrence == nil || *edit.Recurrence != task.RecurrenceMonthly {
		t.Errorf("expected recurrence pointer, got %v", edit.Recurrence)
	}
	if edit.Description == nil || *edit.Description != "description" {
		t.Errorf("expected description pointer, got %v", edit.Description)
	}
}
