package workflow

import (
	"errors"
	"fmt"
)

// State is the position of a run in the generate-then-mint workflow.
type State int

const (
	Idle State = iota
	Generating
	Generated
	Minting
	Minted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Generating:
		return "Generating"
	case Generated:
		return "Generated"
	case Minting:
		return "Minting"
	case Minted:
		return "Minted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Loading reports whether a call is in flight in this state.
func (s State) Loading() bool {
	return s == Generating || s == Minting
}

// Event is a user trigger or the outcome of a stage.
type Event int

const (
	EventGenerate Event = iota
	EventGenerateSucceeded
	EventGenerateFailed
	EventMint
	EventMintSucceeded
	EventMintFailed
	EventCancel
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventGenerate:
		return "generate"
	case EventGenerateSucceeded:
		return "generate succeeded"
	case EventGenerateFailed:
		return "generate failed"
	case EventMint:
		return "mint"
	case EventMintSucceeded:
		return "mint succeeded"
	case EventMintFailed:
		return "mint failed"
	case EventCancel:
		return "cancel"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

var ErrInvalidTransition = errors.New("action not available in the current state")

type edge struct {
	from State
	ev   Event
}

var transitions = map[edge]State{
	{Idle, EventGenerate}:                Generating,
	{Generating, EventGenerateSucceeded}: Generated,
	{Generating, EventGenerateFailed}:    Idle,
	{Generated, EventMint}:               Minting,
	{Minting, EventMintSucceeded}:        Minted,
	{Minting, EventMintFailed}:           Generated,
	{Generated, EventCancel}:             Idle,
	{Generated, EventReset}:              Idle,
	{Minted, EventReset}:                 Idle,
}

// Transition returns the state reached from `from` on ev, or
// ErrInvalidTransition when ev is not allowed there.
func Transition(from State, ev Event) (State, error) {
	to, ok := transitions[edge{from, ev}]
	if !ok {
		return from, fmt.Errorf("%w: %s while %s", ErrInvalidTransition, ev, from)
	}
	return to, nil
}

// Allowed reports whether ev is accepted in state s.
func Allowed(s State, ev Event) bool {
	_, ok := transitions[edge{s, ev}]
	return ok
}
