package model

import "errors"

// Input-shape errors. These indicate a caller bug and abort a solve;
// every legitimate scheduling outcome is reported as data instead.
var (
	ErrMissingID        = errors.New("missing identifier")
	ErrNegativeCapacity = errors.New("negative capacity")
	ErrUnknownCriterion = errors.New("unknown criterion kind")
	ErrUnknownPriority  = errors.New("unknown priority level")
)
