package journal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndEntries(t *testing.T) {
	j := openTest(t)
	id, err := j.StartSession("/work")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("session id %q is not a uuid: %v", id, err)
	}

	lines := []struct {
		in, out string
		isErr   bool
	}{
		{"let x = 1", "1", false},
		{"x +", "error[ParseError] unexpected end of input", true},
		{"x * 2", "2", false},
	}
	for _, l := range lines {
		if err := j.Record(id, l.in, l.out, l.isErr); err != nil {
			t.Fatalf("Record(%q): %v", l.in, err)
		}
	}

	got, err := j.Entries(id)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	want := []Entry{
		{SessionID: id, Seq: 1, Input: "let x = 1", Output: "1"},
		{SessionID: id, Seq: 2, Input: "x +", Output: "error[ParseError] unexpected end of input", IsError: true},
		{SessionID: id, Seq: 3, Input: "x * 2", Output: "2"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Entry{}, "At")); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestSessions(t *testing.T) {
	j := openTest(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	j.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, _ := j.StartSession("/a")
	second, _ := j.StartSession("/b")
	if err := j.Record(first, "1", "1", false); err != nil {
		t.Fatal(err)
	}

	sessions, err := j.Sessions()
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != second || sessions[1].ID != first {
		t.Errorf("sessions not newest first: %+v", sessions)
	}
	if sessions[1].Entries != 1 || sessions[0].Entries != 0 {
		t.Errorf("entry counts = %d, %d; want 1, 0", sessions[1].Entries, sessions[0].Entries)
	}
	if !sessions[1].StartedAt.Equal(base.Add(time.Second)) {
		t.Errorf("StartedAt = %v", sessions[1].StartedAt)
	}
}

func TestUnknownSession(t *testing.T) {
	j := openTest(t)
	if err := j.Record("nope", "1", "1", false); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Record on unknown session: %v, want ErrSessionNotFound", err)
	}
	if _, err := j.Entries("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Entries on unknown session: %v, want ErrSessionNotFound", err)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.db")
	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := j.StartSession("/w")
	j.Record(id, "2 + 2", "4", false)
	j.Close()

	j, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	entries, err := j.Entries(id)
	if err != nil || len(entries) != 1 || entries[0].Output != "4" {
		t.Errorf("after reopen: %+v, %v", entries, err)
	}
}

func TestInMemory(t *testing.T) {
	j, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	id, err := j.StartSession("")
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Record(id, "1", "1", false); err != nil {
		t.Errorf("Record in memory: %v", err)
	}
}
