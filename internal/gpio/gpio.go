// Package gpio provides the button input and lamp output with hardware
// abstraction. The real implementations use the Linux GPIO character device.
// The fakes allow testing without hardware.
package gpio

// ButtonReader reads the button line.
type ButtonReader interface {
	// Read returns true while the button is pressed. The line is pulled low
	// externally and driven high through the switch, so the raw level is the
	// logical value — no inversion.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// LampDriver drives the lamp line.
type LampDriver interface {
	// Write energizes (true) or de-energizes (false) the lamp.
	Write(on bool) error

	// Close de-energizes the lamp and releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinButton = 17
	DefaultPinLamp   = 27
)
