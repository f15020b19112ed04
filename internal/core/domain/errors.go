package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrStreamNotFound  = errors.New("stream not found")
	ErrStreamNotLive   = errors.New("stream is not live")
	ErrTipNotFound     = errors.New("tip not found")
	ErrOverlayNotFound = errors.New("overlay not found")
)
