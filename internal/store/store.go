package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var timeNow = func() time.Time { return time.Now() }

// DefaultDueTime fills in for records saved before due_time existed.
const DefaultDueTime = "12:00 PM"

// Task is one to-do item. Title is stored lowercase: it doubles as the
// case-insensitive key within a list, and the original display casing is
// not preserved.
type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	DueTime     string `json:"due_time"`
	Completed   bool   `json:"completed"`
}

// NewTask lowercases the title; the other fields are taken as given.
// Completed starts false and nothing in the shell ever sets it true; the
// field is carried only for storage compatibility.
func NewTask(title, description, dueDate, dueTime string) Task {
	return Task{
		Title:       strings.ToLower(title),
		Description: description,
		DueDate:     dueDate,
		DueTime:     dueTime,
	}
}

// DueMoment parses the task's stored due date and time.
func (t Task) DueMoment() (time.Time, error) {
	return time.ParseInLocation(dueLayout, t.DueDate+" "+t.DueTime, time.Local)
}

// List is the ordered set of all tasks plus its persistence operations.
// Insertion order is display order. The backing file path is fixed at
// construction and every mutating operation except Add rewrites the whole
// file immediately.
type List struct {
	tasks []Task
	path  string
}

func NewList(path string) *List {
	return &List{path: path}
}

func (l *List) Path() string { return l.path }

// Tasks returns the list in insertion order.
func (l *List) Tasks() []Task { return l.tasks }

func (l *List) Len() int { return len(l.tasks) }

// Add appends without a uniqueness check and without persisting; callers
// pre-check IsDuplicate before constructing the task.
func (l *List) Add(t Task) {
	l.tasks = append(l.tasks, t)
}

// Remove drops every task whose title matches case-insensitively, then
// persists, whether or not anything matched.
func (l *List) Remove(title string) error {
	key := strings.ToLower(title)
	kept := l.tasks[:0]
	for _, t := range l.tasks {
		if t.Title != key {
			kept = append(kept, t)
		}
	}
	l.tasks = kept
	return l.Save()
}

// UpdateInput carries the replacement values for Update. Empty fields are
// left unchanged.
type UpdateInput struct {
	Title       string
	Description string
	DueDate     string
	DueTime     string
}

// Update overwrites the supplied fields on the first task whose title
// matches case-insensitively, persists, and stops. A new title is
// lowercased like any other.
func (l *List) Update(title string, in UpdateInput) error {
	key := strings.ToLower(title)
	for i := range l.tasks {
		if l.tasks[i].Title != key {
			continue
		}
		if in.Title != "" {
			l.tasks[i].Title = strings.ToLower(in.Title)
		}
		if in.Description != "" {
			l.tasks[i].Description = in.Description
		}
		if in.DueDate != "" {
			l.tasks[i].DueDate = in.DueDate
		}
		if in.DueTime != "" {
			l.tasks[i].DueTime = in.DueTime
		}
		return l.Save()
	}
	return nil
}

// Clear empties the list and persists.
func (l *List) Clear() error {
	l.tasks = nil
	return l.Save()
}

// IsDuplicate reports whether any task already holds this title, compared
// case-insensitively. No side effects.
func (l *List) IsDuplicate(title string) bool {
	key := strings.ToLower(title)
	for _, t := range l.tasks {
		if t.Title == key {
			return true
		}
	}
	return false
}

// taskRecord mirrors Task on disk. DueTime is a pointer so an absent key
// (old files) can be told apart from an empty string.
type taskRecord struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	DueTime     *string `json:"due_time"`
	Completed   bool    `json:"completed"`
}

// Save overwrites the backing file with the full ordered list.
func (l *List) Save() error {
	records := make([]taskRecord, 0, len(l.tasks))
	for _, t := range l.tasks {
		due := t.DueTime
		records = append(records, taskRecord{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
			DueTime:     &due,
			Completed:   t.Completed,
		})
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return atomicWriteFile(l.path, b, 0o644)
}

// Load replaces the in-memory list with the file's contents. A missing
// file leaves the list as-is; a malformed or unreadable one is an error
// the caller does not recover from.
func (l *List) Load() error {
	b, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var records []taskRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return fmt.Errorf("load %s: %w", l.path, err)
	}
	tasks := make([]Task, 0, len(records))
	for _, r := range records {
		dueTime := DefaultDueTime
		if r.DueTime != nil {
			dueTime = *r.DueTime
		}
		t := NewTask(r.Title, r.Description, r.DueDate, dueTime)
		t.Completed = r.Completed
		tasks = append(tasks, t)
	}
	l.tasks = tasks
	return nil
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, ".tmp-"+newULID())
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	id, err := ulid.New(t, ulid.Monotonic(randReader{}, 0))
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}
