package ident

import "errors"

var (
	// ErrNoFixedEffects indicates an empty fixed-effect slice.
	ErrNoFixedEffects = errors.New("ident: at least one fixed effect required")
	// ErrObsMismatch indicates fixed effects disagreeing on observation count.
	ErrObsMismatch = errors.New("ident: fixed effects disagree on observation count")
	// ErrCoefShape indicates coefficient vectors not matching the fixed effects.
	ErrCoefShape = errors.New("ident: coefficient shape mismatch")
)
