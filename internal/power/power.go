// Package power watches logind for sleep/wake transitions. Monitors
// tend to forget their selected input across a host sleep, so the
// daemon re-applies the last switch on wake.
package power

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	login1Dest      = "org.freedesktop.login1"
	login1Path      = "/org/freedesktop/login1"
	login1Interface = "org.freedesktop.login1.Manager"
	sleepSignal     = "PrepareForSleep"
)

type (
	// Watcher delivers sleep/wake events from org.freedesktop.login1.
	Watcher struct {
		conn    *dbus.Conn
		events  chan Event
		signals chan *dbus.Signal
	}

	// Event is one sleep/wake transition.
	Event struct {
		EnteringSleep bool // false means the host just woke up
	}
)

// NewWatcher connects to the system bus and prepares a watcher.
func NewWatcher() (*Watcher, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to system bus: %w", err)
	}
	return &Watcher{
		conn:    conn,
		events:  make(chan Event, 10),
		signals: make(chan *dbus.Signal, 10),
	}, nil
}

// Events returns the channel transitions are delivered on.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run listens for PrepareForSleep signals until the context is
// canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.conn.RemoveSignal(w.signals)

	if err := w.conn.AddMatchSignalContext(
		ctx, dbus.WithMatchInterface(login1Interface), dbus.WithMatchMember(sleepSignal),
		dbus.WithMatchObjectPath(dbus.ObjectPath(login1Path)),
	); err != nil {
		return fmt.Errorf("adding dbus match rule: %w", err)
	}
	w.conn.Signal(w.signals)

	for {
		select {
		case sig, ok := <-w.signals:
			if !ok {
				return fmt.Errorf("signals channel closed")
			}
			entering, ok := parseSleepSignal(sig)
			if !ok {
				continue
			}
			select {
			case w.events <- Event{EnteringSleep: entering}:
			case <-ctx.Done():
				return ctx.Err()
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close tears down the bus connection.
func (w *Watcher) Close() error {
	return w.conn.Close()
}

func parseSleepSignal(sig *dbus.Signal) (entering bool, ok bool) {
	if sig.Name != login1Interface+"."+sleepSignal || len(sig.Body) < 1 {
		return false, false
	}
	entering, ok = sig.Body[0].(bool)
	return entering, ok
}
