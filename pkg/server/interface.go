/*
Package server implements msgpack IPC for the synonym suggestion engine.

The server speaks binary msgpack over stdin/stdout so a host editor can drive
the engine through process communication. Requests are small command frames
correlated by an ID field; replies to a command come back with the same ID.

	{"id": "r1", "cmd": "open", "text": "Быстрая лиса прыгает"}
	{"id": "r2", "cmd": "move", "off": 9}

Suggestion lists are not replies: the engine debounces cursor movement and a
list becomes ready only after the quiet period (and possibly a model round
trip), by which point the cursor may have moved again. Completed, non-stale
lists and transient notices are therefore pushed as separate event frames:

	{"ev": "suggestions", "w": "лиса", "s": ["зверь", "плутовка"], "c": 2}
	{"ev": "notice", "msg": "could not fetch suggestions for \"лиса\": ..."}

# Commands

	open    replace the buffer text
	move    report a cursor offset (drives the engine)
	choose  apply a picked suggestion over the word it was offered for
	lint    run the morphology checker over the buffer
	undo    step the revision history back
	redo    step the revision history forward
	text    fetch the current buffer
	health  liveness check
*/
package server

// Request is an incoming command frame.
type Request struct {
	ID     string `msgpack:"id"`
	Cmd    string `msgpack:"cmd"`
	Text   string `msgpack:"text,omitempty"`
	Offset int    `msgpack:"off,omitempty"`
	Word   string `msgpack:"w,omitempty"`
}

// AckResponse confirms a command that produces no payload.
type AckResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// TextResponse carries the buffer state after text/undo/redo.
type TextResponse struct {
	ID     string `msgpack:"id"`
	Text   string `msgpack:"text"`
	Cursor int    `msgpack:"off"`
}

// SuggestionEvent is pushed when a non-stale suggestion list is ready.
type SuggestionEvent struct {
	Event       string   `msgpack:"ev"`
	Word        string   `msgpack:"w"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
}

// NoticeEvent is pushed for transient, user-visible notices.
type NoticeEvent struct {
	Event   string `msgpack:"ev"`
	Message string `msgpack:"msg"`
}

// LintIssue is one flagged span, in rune offsets.
type LintIssue struct {
	Start   int    `msgpack:"st"`
	Length  int    `msgpack:"ln"`
	Message string `msgpack:"msg"`
}

// LintResponse answers a lint command.
type LintResponse struct {
	ID     string      `msgpack:"id"`
	Issues []LintIssue `msgpack:"issues"`
	Count  int         `msgpack:"c"`
}

// ErrorResponse reports a failed command.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
