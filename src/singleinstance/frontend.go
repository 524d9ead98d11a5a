package singleinstance

// Frontend is the capability surface the coordinator may drive on the
// plugin window. Implementations wrap the host CAD application's window
// handle; every method returns an error when the underlying window has
// been destroyed, which the dispatcher treats as a signal to drop the
// handle.
type Frontend interface {
	// IsShown reports whether the window is currently visible.
	IsShown() (bool, error)
	// Show makes the window visible (or hides it when show is false).
	Show(show bool) error
	// IsIconized reports whether the window is minimized.
	IsIconized() (bool, error)
	// Iconize minimizes the window, or restores it when iconize is false.
	Iconize(iconize bool) error
	// Raise moves the window above its siblings in the z-order.
	Raise() error
	// SetFocus gives the window keyboard focus.
	SetFocus() error
}

// AttentionRequester is implemented by frontends whose platform can
// flash the taskbar entry or bounce the dock icon. Optional.
type AttentionRequester interface {
	RequestUserAttention() error
}
