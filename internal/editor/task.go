package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskboard/internal/validation"
	"github.com/amonks/taskboard/task"
)

// TaskData represents the data used to render the TOML template.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	// ID is the task ID (only for updates).
	ID string
	// Title is the task name.
	Title string
	// Due is the mm/dd/yyyy due date.
	Due string
	// Recurrence is the repeat pattern.
	Recurrence string
	// Description is the free-text body.
	Description string
}

// DefaultCreateData returns TaskData for a new task due on due.
func DefaultCreateData(due string) TaskData {
	return TaskData{
		Due:        due,
		Recurrence: string(task.RecurrenceNone),
	}
}

// DataFromTask creates TaskData from an existing task for editing.
func DataFromTask(t task.Task) TaskData {
	recurrence := t.Recurrence
	if recurrence == "" {
		recurrence = task.RecurrenceNone
	}
	return TaskData{
		IsUpdate:    true,
		ID:          t.ID,
		Title:       t.Title,
		Due:         t.Due,
		Recurrence:  string(recurrence),
		Description: t.Description,
	}
}

var taskTemplate = template.Must(template.New("task").Funcs(template.FuncMap{
	"recurrences": func() string {
		return validation.FormatValidValues(task.ValidRecurrences())
	},
}).Parse(`{{- if .IsUpdate }}# editing {{ .ID }}
{{ end -}}
title = {{ printf "%q" .Title }}
due = {{ printf "%q" .Due }} # mm/dd/yyyy
recurrence = {{ printf "%q" .Recurrence }} # {{ recurrences }}
---
{{ .Description }}
`))

// RenderTaskTOML renders the task data as a TOML string for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask represents the parsed result from the TOML editor output.
type ParsedTask struct {
	Title       string `toml:"title"`
	Due         string `toml:"due"`
	Recurrence  string `toml:"recurrence"`
	Description string `toml:"-"`
}

// ParseTaskTOML parses and validates the document written by the editor.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedTask
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Due = strings.TrimSpace(parsed.Due)
	parsed.Description = strings.TrimSpace(body)

	if err := task.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	if err := task.ValidateDue(parsed.Due); err != nil {
		return nil, err
	}
	recurrence, err := task.NormalizeRecurrence(parsed.Recurrence)
	if err != nil {
		return nil, err
	}
	parsed.Recurrence = string(recurrence)

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

// EditTask opens the editor with pre-populated data and returns the parsed result.
func EditTask(data TaskData) (*ParsedTask, error) {
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "tasks-edit-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited))
}

// AddOptions converts the document into options for a new task.
func (p *ParsedTask) AddOptions() task.AddOptions {
	return task.AddOptions{
		Title:       p.Title,
		Due:         p.Due,
		Description: p.Description,
		Recurrence:  task.Recurrence(p.Recurrence),
	}
}

// EditOptions converts the document into a full edit of an existing task.
func (p *ParsedTask) EditOptions() task.EditOptions {
	recurrence := task.Recurrence(p.Recurrence)
	return task.EditOptions{
		Title:       &p.Title,
		Due:         &p.Due,
		Description: &p.Description,
		Recurrence:  &recurrence,
	}
}
