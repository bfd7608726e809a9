package taskstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/taskboard/task"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.February, 10, 15, 30, 0, 0, time.UTC)

func sampleTasks() []task.Task {
	return []task.Task{
		{
			ID:          "aaaaaaaa",
			Title:       "Write report",
			Due:         "02/12/2026",
			Description: "quarterly numbers",
			Recurrence:  task.RecurrenceNone,
			CreatedAt:   task.NewStamp(testNow),
		},
		{
			ID:               "bbbbbbbb",
			Title:            "Pay rent",
			Due:              "02/01/2026",
			Completed:        true,
			CompletedAt:      task.NewStamp(testNow),
			Saved:            true,
			SavedAt:          task.NewStamp(testNow.Add(time.Minute)),
			Recurrence:       task.RecurrenceMonthly,
			PreviousPriority: task.PriorityPtr(task.PriorityOverdue),
		},
		{
			ID:        "cccccccc",
			Title:     "Old thing",
			Due:       "not a date",
			Deleted:   true,
			DeletedAt: task.NewStamp(testNow.Add(-time.Hour)),
		},
	}
}

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	sqliteStore, err := OpenSQLite(ctx, filepath.Join(dir, "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"json":   NewFileStore(filepath.Join(dir, "tasks.json"), FormatJSON),
		"yaml":   NewFileStore(filepath.Join(dir, "tasks.yaml"), FormatYAML),
		"sqlite": sqliteStore,
		"memory": NewMemoryStore(),
	}
}

func TestBackendsRoundTrip(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := store.Load(ctx)
			require.NoError(t, err)
			assert.NotNil(t, empty)
			assert.Empty(t, empty)

			require.NoError(t, store.Save(ctx, sampleTasks()))
			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(sampleTasks(), loaded); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBackendsPreserveOrderAndShrink(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, sampleTasks()))

			reordered := []task.Task{sampleTasks()[2], sampleTasks()[0]}
			require.NoError(t, store.Save(ctx, reordered))

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			require.Len(t, loaded, 2)
			assert.Equal(t, "cccccccc", loaded[0].ID)
			assert.Equal(t, "aaaaaaaa", loaded[1].ID)
		})
	}
}

func TestFileStoreReadsLegacyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	legacy := `[
  // written by the old tool
  {
    "task": "Buy milk",
    "due": "02/12/2026",
    "description": "",
    "completed": true,
    "completed_at": "2026-02-09T10:11:12.123456",
    "deleted": false,
    "deleted_at": null,
    "saved": false,
    "saved_at": null,
  },
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	loaded, err := NewFileStore(path, FormatJSON).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Buy milk", loaded[0].Title)
	assert.Empty(t, loaded[0].ID)
	require.NotNil(t, loaded[0].CompletedAt)
	_, ok := loaded[0].CompletedAt.Time()
	assert.True(t, ok, "expected naive stamp to parse")
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path, FormatJSON).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestFileStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o644))

	loaded, err := NewFileStore(path, FormatJSON).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStoreWritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	store := NewFileStore(path, FormatJSON)
	require.NoError(t, store.Save(context.Background(), sampleTasks()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"aaaaaaaa\",")
	assert.Contains(t, string(data), "\"completed_at\": null")
}

func TestFileStoreLockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := NewFileStore(path, FormatJSON)

	unlock, err := store.Lock(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = NewFileStore(path, FormatJSON).Lock(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	require.NoError(t, unlock())

	unlock, err = NewFileStore(path, FormatJSON).Lock(context.Background())
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore(sampleTasks()...)
	ctx := context.Background()

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	loaded[0].Title = "changed"

	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Write report", again[0].Title)
}
