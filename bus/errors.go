package bus

import "errors"

var (
	// ErrMailboxClosed is returned by any operation against a mailbox whose
	// owner has already terminated.
	ErrMailboxClosed = errors.New("bus: mailbox closed")
	// ErrMailboxFull is returned by Deliver when the recipient's mailbox
	// stays at capacity for the whole delivery timeout.
	ErrMailboxFull = errors.New("bus: mailbox full")
	// ErrUnknownMailbox is returned when addressing an agent id that was
	// never registered on this bus.
	ErrUnknownMailbox = errors.New("bus: unknown mailbox")
)
