package ksync

import "errors"

var (
	// ErrNotOwner is returned by Unlock/UnlockISR when the calling
	// activity does not currently hold the mutex.
	ErrNotOwner = errors.New("ksync: unlock called by non-owner")
)
