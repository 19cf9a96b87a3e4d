package db

import "errors"

// Sentinel errors for index lifecycle commands.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
)

// Command names used as Error context.
const (
	CmdCreate  = "FT.CREATE"
	CmdDrop    = "FT.DROPINDEX"
	CmdInfo    = "FT.INFO"
	CmdSearch  = "FT.SEARCH"
	CmdJSONSet = "JSON.SET"
	CmdDel     = "DEL"
)

// Error is a failed store command together with the key or index it targeted.
type Error struct {
	Cmd    string
	Target string
	Err    error
}

func (e *Error) Error() string {
	if e.Target == "" {
		return e.Cmd + ": " + e.Err.Error()
	}
	return e.Cmd + " " + e.Target + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
