// Package notify surfaces focus-complete and reminder events to the user.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gen2brain/beeep"
)

const (
	FocusCompleteTitle = "Time's up!"
	FocusCompleteBody  = "Log what you just worked on."
	ReminderTitle      = "Time to record"
	ReminderBody       = "What have you been doing since the last entry?"
)

// ErrPermissionDenied is returned when the host does not allow
// notifications. Callers treat it as a silent no-op.
var ErrPermissionDenied = errors.New("notifications not permitted")

type Notifier interface {
	Notify(title, body string) error
}

type disabled struct{}

func (disabled) Notify(string, string) error { return ErrPermissionDenied }

// Disabled returns a Notifier that always reports ErrPermissionDenied.
func Disabled() Notifier { return disabled{} }

// Desktop sends native notifications through beeep (D-Bus on Linux,
// osascript on macOS, toast on Windows). A refused notification is reported
// as ErrPermissionDenied unless Fallback delivers it.
type Desktop struct {
	Fallback Notifier
	send     func(title, body string) error
}

func NewDesktop(fallback Notifier) *Desktop {
	return &Desktop{
		Fallback: fallback,
		send: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

func (d *Desktop) Notify(title, body string) error {
	err := d.send(title, body)
	if err == nil {
		return nil
	}
	err = fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	if d.Fallback == nil {
		return err
	}
	if ferr := d.Fallback.Notify(title, body); ferr != nil {
		return errors.Join(err, ferr)
	}
	return nil
}

// Terminal rings the bell and writes an OSC 9 desktop notification, which
// most terminal emulators forward to the system notification center.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Notify(title, body string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintf(t.out, "\x1b]9;%s: %s\x07\a", title, body); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu   sync.Mutex
	Sent []Message
	Err  error
}

type Message struct {
	Title string
	Body  string
}

func (r *Recorder) Notify(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, Message{Title: title, Body: body})
	return nil
}

// Count returns how many notifications were delivered.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Sent)
}
