package singleinstance

import "log"

// Scheduler posts a function onto the UI execution context. Satisfied by
// eventloop.Loop; the dispatcher never touches the frontend from the
// server goroutine directly.
type Scheduler interface {
	Post(fn func()) bool
}

// Dispatcher executes decoded commands against the registered frontend,
// always on the UI loop.
type Dispatcher struct {
	registry *Registry
	ui       Scheduler
}

func NewDispatcher(registry *Registry, ui Scheduler) *Dispatcher {
	return &Dispatcher{registry: registry, ui: ui}
}

// Dispatch handles one decoded command. Unknown commands are ignored;
// the transport layer has already acknowledged them.
func (d *Dispatcher) Dispatch(command string) {
	switch command {
	case CommandFocus:
		if !d.ui.Post(d.bringToForeground) {
			log.Printf("singleinstance: UI loop stopped, dropping focus command")
			return
		}
		log.Printf("singleinstance: scheduled focus on UI loop")
	default:
		log.Printf("singleinstance: ignoring unknown command %q", command)
	}
}

// bringToForeground runs on the UI loop. Any failure while driving the
// frontend means the window is gone; the handle is dropped rather than
// retried and the error never leaves the dispatcher.
func (d *Dispatcher) bringToForeground() {
	f := d.registry.Current()
	if f == nil {
		log.Printf("singleinstance: no frontend registered, focus is a no-op")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("singleinstance: frontend panicked during focus, dropping handle: %v", r)
			d.registry.Unregister()
		}
	}()

	if err := raiseFrontend(f); err != nil {
		log.Printf("singleinstance: frontend unusable, dropping handle: %v", err)
		d.registry.Unregister()
		return
	}
	log.Printf("singleinstance: window brought to foreground")
}

func raiseFrontend(f Frontend) error {
	shown, err := f.IsShown()
	if err != nil {
		return err
	}
	if !shown {
		log.Printf("singleinstance: window hidden, showing")
		if err := f.Show(true); err != nil {
			return err
		}
	}

	iconized, err := f.IsIconized()
	if err != nil {
		return err
	}
	if iconized {
		log.Printf("singleinstance: window iconized, restoring")
		if err := f.Iconize(false); err != nil {
			return err
		}
	}

	if err := f.Raise(); err != nil {
		return err
	}
	if err := f.SetFocus(); err != nil {
		return err
	}

	if ar, ok := f.(AttentionRequester); ok {
		if err := ar.RequestUserAttention(); err != nil {
			return err
		}
	}
	return nil
}
