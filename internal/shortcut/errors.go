package shortcut

import (
	"errors"
	"fmt"
)

var (
	// ErrLockAcquisition means the shared state was left inconsistent by a
	// panic and can no longer be used.
	ErrLockAcquisition = errors.New("failed to acquire shortcut state lock")

	// ErrNoShortcut is returned when enabling with nothing to re-register.
	ErrNoShortcut = errors.New("no shortcut registered")

	// ErrClosed is returned after Shutdown.
	ErrClosed = errors.New("shortcut manager is shut down")
)

// UnsupportedKeyError reports a key outside the letter/digit whitelist.
type UnsupportedKeyError struct {
	Key string
}

func (e *UnsupportedKeyError) Error() string {
	return fmt.Sprintf("unsupported key: %q", e.Key)
}

// RegistrationError reports that the OS refused a key combination.
type RegistrationError struct {
	Descriptor Descriptor
	Err        error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %s: %v", e.Descriptor, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// PersistenceError reports a failed save after a successful registration.
// The registration stays in effect.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist shortcut: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// LockError wraps ErrLockAcquisition with what poisoned the state.
type LockError struct {
	Op    string
	Cause any
}

func (e *LockError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrLockAcquisition)
	}
	return fmt.Sprintf("%s: %v (panic: %v)", e.Op, ErrLockAcquisition, e.Cause)
}

func (e *LockError) Unwrap() error { return ErrLockAcquisition }
