package domain

import "errors"

var (
	ErrBetNotFound    = errors.New("bet not found")
	ErrInvalidAmount  = errors.New("invalid bet amount")
	ErrLimitExceeded  = errors.New("bet limit exceeded")
	ErrUnknownBetType = errors.New("unknown bet type")
	ErrRequestTimeout = errors.New("request timed out")
	ErrChannelClosed  = errors.New("channel closed")
)
