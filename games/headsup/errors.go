/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package headsup

import "errors"

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrRoundStarted    = errors.New("round already started")
	ErrInvalidConfig   = errors.New("invalid round config")
)
