package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDisabled(t *testing.T) {
	if err := Disabled().Notify("t", "b"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf)
	if err := n.Notify(FocusCompleteTitle, FocusCompleteBody); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\x1b]9;") || !strings.HasSuffix(out, "\a") {
		t.Fatalf("unexpected sequence %q", out)
	}
	if !strings.Contains(out, FocusCompleteTitle) {
		t.Fatal("title missing")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTerminalWriteError(t *testing.T) {
	if err := NewTerminal(failingWriter{}).Notify("t", "b"); err == nil {
		t.Fatal("expected write error")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Notify(ReminderTitle, ReminderBody)
	if r.Count() != 1 || r.Sent[0].Title != ReminderTitle {
		t.Fatalf("unexpected messages: %+v", r.Sent)
	}

	r.Err = ErrPermissionDenied
	if err := r.Notify("t", "b"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatal("Recorder should return its configured error")
	}
	if r.Count() != 1 {
		t.Fatal("failed notifications are not recorded")
	}
}

func TestDesktopDelivers(t *testing.T) {
	var got []string
	fallback := &Recorder{}
	d := &Desktop{Fallback: fallback, send: func(title, body string) error {
		got = append(got, title+"|"+body)
		return nil
	}}
	if err := d.Notify(ReminderTitle, ReminderBody); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != ReminderTitle+"|"+ReminderBody {
		t.Fatalf("unexpected desktop calls %v", got)
	}
	if fallback.Count() != 0 {
		t.Fatal("fallback should not run when the desktop accepts")
	}
}

func TestDesktopFallsBack(t *testing.T) {
	var buf bytes.Buffer
	d := &Desktop{Fallback: NewTerminal(&buf), send: func(string, string) error {
		return errors.New("no session bus")
	}}
	if err := d.Notify(FocusCompleteTitle, FocusCompleteBody); err != nil {
		t.Fatalf("fallback delivered, expected nil, got %v", err)
	}
	if !strings.Contains(buf.String(), FocusCompleteTitle) {
		t.Fatalf("fallback should write the notification, got %q", buf.String())
	}
}

func TestDesktopRefusedWithoutFallback(t *testing.T) {
	d := &Desktop{send: func(string, string) error { return errors.New("denied") }}
	if err := d.Notify("t", "b"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestDesktopFallbackFailure(t *testing.T) {
	d := &Desktop{
		Fallback: NewTerminal(failingWriter{}),
		send:     func(string, string) error { return errors.New("denied") },
	}
	err := d.Notify("t", "b")
	if !errors.Is(err, ErrPermissionDenied) || !strings.Contains(err.Error(), "closed") {
		t.Fatalf("expected both failures, got %v", err)
	}
}

func TestNewDesktop(t *testing.T) {
	fallback := &Recorder{}
	d := NewDesktop(fallback)
	if d.Fallback != fallback || d.send == nil {
		t.Fatal("NewDesktop should wire the fallback and sender")
	}
}
