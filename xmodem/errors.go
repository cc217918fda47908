package xmodem

import "errors"

var (
	ErrSourceUnavailable = errors.New("source file unavailable")
	ErrPeerCancelled     = errors.New("transfer cancelled by peer")
	ErrRetriesExhausted  = errors.New("block rejected too many times")
	ErrTimeout           = errors.New("timed out waiting for peer")
)
