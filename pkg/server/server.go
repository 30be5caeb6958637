package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nkarev/synserve/internal/logger"
	"github.com/nkarev/synserve/pkg/editor"
	"github.com/nkarev/synserve/pkg/morph"
	"github.com/nkarev/synserve/pkg/suggest"
)

var log = logger.New("ipc")

// Server handles the IPC between a host editor and the suggestion engine.
// It also acts as the engine's Sink: suggestion lists and notices arrive on
// controller goroutines and are pushed to the host as event frames, so every
// write goes through one mutex-guarded encoder.
type Server struct {
	buffer     *editor.Buffer
	controller *suggest.Controller
	presenter  *suggest.Presenter

	dec *msgpack.Decoder

	wmu sync.Mutex
	enc *msgpack.Encoder
}

// NewServer creates a suggestion server using stdin/stdout for IPC.
func NewServer(buffer *editor.Buffer) *Server {
	return NewServerWithIO(buffer, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over arbitrary streams.
func NewServerWithIO(buffer *editor.Buffer, r io.Reader, w io.Writer) *Server {
	return &Server{
		buffer: buffer,
		dec:    msgpack.NewDecoder(r),
		enc:    msgpack.NewEncoder(w),
	}
}

// Attach hands the server its engine collaborators. Separate from the
// constructor because the presenter needs the server as its Sink first.
func (s *Server) Attach(controller *suggest.Controller, presenter *suggest.Presenter) {
	s.controller = controller
	s.presenter = presenter
}

// Start begins processing IPC requests until stdin closes.
func (s *Server) Start() error {
	log.Debug("Starting server.")
	s.send(AckResponse{Status: "ready"})

	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request Request) {
	switch request.Cmd {
	case "open":
		s.buffer.SetText(request.Text)
		s.send(AckResponse{ID: request.ID, Status: "ok"})
	case "move":
		s.handleMove(request)
	case "choose":
		s.handleChoose(request)
	case "lint":
		s.handleLint(request)
	case "undo":
		s.handleHistory(request, s.buffer.Undo)
	case "redo":
		s.handleHistory(request, s.buffer.Redo)
	case "text":
		s.send(TextResponse{ID: request.ID, Text: s.buffer.FullText(), Cursor: s.buffer.Cursor()})
	case "health":
		s.send(AckResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Cmd), 400)
	}
}

// handleMove acknowledges immediately; any suggestion list follows as an
// event frame once the debounce window closes.
func (s *Server) handleMove(request Request) {
	s.buffer.SetCursor(request.Offset)
	s.controller.OnCursorMoved(s.buffer.Cursor())
	s.send(AckResponse{ID: request.ID, Status: "ok"})
}

func (s *Server) handleChoose(request Request) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	if err := s.presenter.Choose(request.Word); err != nil {
		// Stale applications already produced a notice event; the command
		// reply still reports the failure to the caller.
		s.sendError(request.ID, err.Error(), 409)
		return
	}
	s.send(TextResponse{ID: request.ID, Text: s.buffer.FullText(), Cursor: s.buffer.Cursor()})
}

func (s *Server) handleLint(request Request) {
	issues := morph.Check(s.buffer.FullText())
	out := make([]LintIssue, len(issues))
	for i, issue := range issues {
		out[i] = LintIssue{Start: issue.Start, Length: issue.Length, Message: issue.Message}
	}
	s.send(LintResponse{ID: request.ID, Issues: out, Count: len(out)})
}

func (s *Server) handleHistory(request Request, step func() (string, bool)) {
	if _, ok := step(); !ok {
		s.sendError(request.ID, "no further revisions", 404)
		return
	}
	s.send(TextResponse{ID: request.ID, Text: s.buffer.FullText(), Cursor: s.buffer.Cursor()})
}

// ShowSuggestions implements suggest.Sink.
func (s *Server) ShowSuggestions(word string, suggestions []string) {
	s.send(SuggestionEvent{
		Event:       "suggestions",
		Word:        word,
		Suggestions: suggestions,
		Count:       len(suggestions),
	})
}

// ShowNotice implements suggest.Sink.
func (s *Server) ShowNotice(msg string) {
	s.send(NoticeEvent{Event: "notice", Message: msg})
}

func (s *Server) send(response interface{}) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
