package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two fatal conditions of a run
var (
	ErrDiscovery = errors.New("discovery failed")
	ErrStoreInit = errors.New("store initialization failed")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DiscoveryError means the root path is neither a readable file nor a directory.
// Nothing in the store has been touched when it is returned.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("unable to identify source files at %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

func (e *DiscoveryError) Is(target error) bool {
	return target == ErrDiscovery
}

// StoreInitError means the store could not be opened or its schema created
type StoreInitError struct {
	Path string
	Err  error
}

func (e *StoreInitError) Error() string {
	return fmt.Sprintf("cannot initialize store %s: %v", e.Path, e.Err)
}

func (e *StoreInitError) Unwrap() error {
	return e.Err
}

func (e *StoreInitError) Is(target error) bool {
	return target == ErrStoreInit
}
