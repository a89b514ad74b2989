// Package dispatch implements the ~25 command handlers and the keyword
// table that routes a tokenized line to one of them (§4.4). Handlers
// mutate a Context's *model.Graph directly and return a response string
// (or an error that the caller formats as `huh? <reason>`), mirroring
// the teacher's own small-status-code-to-response translation at the
// cmd layer before that layer was retired for this domain.
package dispatch

import "fmt"

// Kind distinguishes the error taxonomy of §7 so the server layer can
// decide severity (log-and-continue vs. fatal) independently of the
// wire-level `huh?` text every one of these produces on a client socket.
type Kind int

const (
	KindProtocol Kind = iota
	KindNotFound
	KindConflict
	KindRange
	KindDriver
	KindSystem
	KindConfig
)

// Error is a command-handler failure. Message is exactly the text placed
// after `huh? ` on the wire (§4.3 response grammar).
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func protoErr(format string, args ...any) error {
	return &Error{Kind: KindProtocol, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
