package pt2go

import "errors"

// Sentinel errors returned by ParseModule. PlaySong collapses all of these
// to a single bool per the narrower error surface a hardware-accurate
// replayer exposes to its caller.
var (
	ErrTruncatedModule       = errors.New("pt2go: module data truncated")
	ErrUnrecognizedSignature = errors.New("pt2go: unrecognized MOD signature, only 31-sample 4-channel MODs are supported")
	ErrTooManyPatterns       = errors.New("pt2go: module declares more patterns than its data can hold")
)
