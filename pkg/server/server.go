package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/askserve/pkg/config"
	"github.com/bastiangx/askserve/pkg/learn"
	"github.com/bastiangx/askserve/pkg/store"
	"github.com/bastiangx/askserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ReloadFunc re-reads the knowledge base and returns its new size.
type ReloadFunc func() (int, error)

// Server handles the IPC for question matching
type Server struct {
	engine   suggest.IEngine
	store    store.Store
	cfg      config.ServerConfig
	reload   ReloadFunc
	writer   *bufio.Writer
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	requests int
}

// NewServer creates a server using stdin/stdout for IPC. st may be nil to disable persistence.
func NewServer(engine suggest.IEngine, cfg config.ServerConfig, st store.Store) *Server {
	return NewServerWithIO(engine, cfg, st, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server on arbitrary streams.
func NewServerWithIO(engine suggest.IEngine, cfg config.ServerConfig, st store.Store, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		engine: engine,
		store:  st,
		cfg:    cfg,
		writer: bw,
		dec:    msgpack.NewDecoder(bufio.NewReader(r)),
		enc:    msgpack.NewEncoder(bw),
	}
}

// SetReloader enables the reload action.
func (s *Server) SetReloader(fn ReloadFunc) {
	s.reload = fn
}

// Start serves requests until the input closes or ctx is done.
// A syntactically broken stream ends the loop with an error; a well-formed
// request with bad fields only gets an error response.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Reading request stream: %v", err)
			s.sendError("", "Invalid msgpack stream", 400)
			return fmt.Errorf("read request: %w", err)
		}
		s.handleRaw(ctx, raw)
	}
}

func (s *Server) handleRaw(ctx context.Context, raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Debugf("Unmarshaling request: %v", err)
		s.sendError("", "Invalid request", 400)
		return
	}
	s.Handle(ctx, req)
}

// Handle dispatches a single decoded request.
func (s *Server) Handle(ctx context.Context, req Request) {
	s.requests++
	switch req.Action {
	case ActionQuery, "":
		s.handleQuery(req)
	case ActionFeedback:
		s.handleFeedback(ctx, req)
	case ActionExport:
		s.handleExport(req)
	case ActionImport:
		s.handleImport(ctx, req)
	case ActionHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	case ActionStats:
		s.handleStats(req)
	case ActionReload:
		s.handleReload(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

// validateQuery returns an error message for unusable query text.
func (s *Server) validateQuery(q string) string {
	if strings.TrimSpace(q) == "" {
		return "Missing 'q' parameter"
	}
	if s.cfg.MaxQueryLen > 0 && utf8.RuneCountInString(q) > s.cfg.MaxQueryLen {
		return fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.MaxQueryLen)
	}
	return ""
}

func (s *Server) handleQuery(req Request) {
	if msg := s.validateQuery(req.Query); msg != "" {
		log.Debugf("Rejected query %q: %s", req.ID, msg)
		s.sendError(req.ID, msg, 400)
		return
	}

	start := time.Now()
	result := s.engine.Query(req.Query)
	elapsed := time.Since(start)

	resp := QueryResponse{
		ID:          req.ID,
		Best:        result.BestMatch,
		Suggestions: result.Suggestions,
		Count:       len(result.Suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
	if result.BestMatch != nil {
		resp.Count++
	}
	if req.Explain {
		resp.Reasons = s.reasonsFor(req.Query, result)
	}
	s.sendResponse(resp)
}

// reasonsFor lists scoring reasons aligned with best match then suggestions.
func (s *Server) reasonsFor(query string, result suggest.Result) [][]string {
	byAnswer := make(map[string][]string)
	for _, c := range s.engine.Score(query) {
		key := c.Entry.Question + "\x00" + c.Entry.Answer
		if _, seen := byAnswer[key]; !seen {
			byAnswer[key] = c.Reasons
		}
	}
	var out [][]string
	if result.BestMatch != nil {
		out = append(out, byAnswer[result.BestMatch.Question+"\x00"+result.BestMatch.Answer])
	}
	for _, m := range result.Suggestions {
		out = append(out, byAnswer[m.Question+"\x00"+m.Answer])
	}
	return out
}

func (s *Server) handleFeedback(ctx context.Context, req Request) {
	if msg := s.validateQuery(req.Query); msg != "" {
		s.sendError(req.ID, msg, 400)
		return
	}
	if req.Answer == "" {
		s.sendError(req.ID, "Missing 'a' parameter", 400)
		return
	}

	event := s.engine.RecordFeedback(req.Query, req.Answer, req.Helpful)
	saved := false
	if s.cfg.Autosave && s.store != nil {
		if err := s.Persist(ctx); err != nil {
			log.Warnf("Autosave failed: %v", err)
		} else {
			saved = true
		}
	}
	s.sendResponse(FeedbackResponse{ID: req.ID, Status: "ok", EventID: event.ID, Saved: saved})
}

func (s *Server) handleExport(req Request) {
	data, err := learn.Encode(s.engine.ExportLearnedState())
	if err != nil {
		log.Errorf("Exporting learned state: %v", err)
		s.sendError(req.ID, "Internal server error", 500)
		return
	}
	s.sendResponse(ExportResponse{ID: req.ID, Data: data})
}

func (s *Server) handleImport(ctx context.Context, req Request) {
	if len(req.Data) == 0 {
		s.sendError(req.ID, "Missing 'd' parameter", 400)
		return
	}
	snapshot, err := learn.Decode(req.Data)
	if err == nil {
		err = s.engine.ImportLearnedState(snapshot)
	}
	if err != nil {
		s.sendError(req.ID, err.Error(), 400)
		return
	}
	if s.cfg.Autosave && s.store != nil {
		if err := s.Persist(ctx); err != nil {
			log.Warnf("Autosave after import failed: %v", err)
		}
	}
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
}

func (s *Server) handleStats(req Request) {
	stats := s.engine.Stats()
	stats["requests"] = s.requests
	s.sendResponse(StatsResponse{ID: req.ID, Stats: stats})
}

func (s *Server) handleReload(req Request) {
	if s.reload == nil {
		s.sendError(req.ID, "Reload is not available", 503)
		return
	}
	n, err := s.reload()
	if err != nil {
		log.Warnf("Reload failed: %v", err)
		s.sendError(req.ID, fmt.Sprintf("Reload failed: %v", err), 500)
		return
	}
	s.sendResponse(ReloadResponse{ID: req.ID, Status: "ok", Entries: n})
}

// Persist encodes the learned state and writes it to the store.
func (s *Server) Persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	data, err := learn.Encode(s.engine.ExportLearnedState())
	if err != nil {
		return err
	}
	return s.store.Save(ctx, data)
}

// sendResponse encodes one msgpack value and flushes it to the client.
func (s *Server) sendResponse(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Marshaling response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
