package task

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// EventLog appends transition events to a JSONL file.
type EventLog struct {
	path    string
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// OpenEventLog opens path for appending, creating it and its directory as
// needed.
func OpenEventLog(path string) (*EventLog, error) {
	if path == "" {
		return nil, fmt.Errorf("event log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create events dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &EventLog{path: path, file: file, encoder: json.NewEncoder(file)}, nil
}

// Path returns the file the log writes to.
func (log *EventLog) Path() string {
	if log == nil {
		return ""
	}
	return log.path
}

// Append writes a new event to the log. Appending to a nil log is a no-op.
func (log *EventLog) Append(event TransitionEvent) error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.encoder == nil {
		return fmt.Errorf("event log is closed")
	}
	return log.encoder.Encode(event)
}

// Close closes the event log.
func (log *EventLog) Close() error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.file == nil {
		return nil
	}
	err := log.file.Close()
	log.file = nil
	log.encoder = nil
	return err
}

// ReadEvents reads transition events from a JSONL reader.
func ReadEvents(reader io.Reader) ([]TransitionEvent, error) {
	events := make([]TransitionEvent, 0)
	if reader == nil {
		return events, nil
	}
	buffer := bufio.NewReader(reader)
	for {
		line, err := buffer.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			var event TransitionEvent
			if unmarshalErr := json.Unmarshal([]byte(line), &event); unmarshalErr != nil {
				return nil, fmt.Errorf("decode transition event: %w", unmarshalErr)
			}
			events = append(events, event)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return events, nil
}

// EventSnapshot returns the events stored at path. A missing file has no
// events.
func EventSnapshot(path string) ([]TransitionEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []TransitionEvent{}, nil
		}
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadEvents(file)
}
