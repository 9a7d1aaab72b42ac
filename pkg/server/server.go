package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/queue"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultLimit = 10

// CodeBadRequest is the CompletionError code of rejected requests.
const CodeBadRequest = 400

// runtimeSizer is implemented by completers whose dictionary can be
// resized while serving.
type runtimeSizer interface {
	Runtime() *dictionary.RuntimeLoader
}

// Server handles the IPC for word completions
type Server struct {
	completer    suggest.ICompleter
	config       *config.Config
	configPath   string
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
}

// Option configures a Server.
type Option func(*Server)

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.decoder = msgpack.NewDecoder(bufio.NewReader(r))
		s.writer = bufio.NewWriter(w)
		s.encoder = msgpack.NewEncoder(s.writer)
	}
}

// NewServer creates a completion server using stdin/stdout for IPC.
// configPath is reloaded periodically; an empty path disables reloading.
func NewServer(completer suggest.ICompleter, cfg *config.Config, configPath string, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		completer:  completer,
		config:     cfg,
		configPath: configPath,
	}
	WithIO(os.Stdin, os.Stdout)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start serves requests until the input ends. A clean end of input
// returns nil.
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Input closed, stopping server")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "invalid request", CodeBadRequest)
			continue
		}

		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	s.requestCount++
	if every := s.config.Server.ReloadEvery; every > 0 && s.requestCount%every == 0 {
		s.reloadConfig()
	}

	switch req.Action {
	case "", ActionComplete:
		s.handleComplete(req)
	case ActionMatch:
		s.handleMatch(req)
	case ActionLongest, ActionContains:
		s.handleLookup(req)
	case ActionGetInfo, ActionSetSize, ActionGetOptions, ActionRequestMore:
		s.handleDictionary(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), CodeBadRequest)
	}
}

func (s *Server) reloadConfig() {
	if s.configPath == "" {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		log.Warnf("Keeping current config, reload failed: %v", err)
		return
	}
	s.config = cfg
	log.Debugf("Reloaded config from %s after %d requests", s.configPath, s.requestCount)
}

// validatePrefix checks the length bounds of the server config.
func (s *Server) validatePrefix(prefix string) error {
	n := utf8.RuneCountInString(prefix)
	if n == 0 {
		return errors.New("missing prefix")
	}
	if n < s.config.Server.MinPrefix {
		return fmt.Errorf("prefix must be at least %d characters", s.config.Server.MinPrefix)
	}
	if n > s.config.Server.MaxPrefix {
		return fmt.Errorf("prefix exceeds maximum length of %d characters", s.config.Server.MaxPrefix)
	}
	return nil
}

func (s *Server) clampLimit(limit int) int {
	if limit < 1 {
		limit = defaultLimit
	}
	return min(limit, s.config.Server.MaxLimit)
}

func (s *Server) handleComplete(req Request) {
	if err := s.validatePrefix(req.Prefix); err != nil {
		log.Debugf("Rejected prefix %q: %v", req.Prefix, err)
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}

	start := time.Now()
	if s.config.Server.EnableFilter && !utils.IsValidInput(req.Prefix) {
		log.Debugf("Filtered prefix %q", req.Prefix)
		s.sendCompletions(req.ID, nil, start)
		return
	}

	limit := s.clampLimit(req.Limit)
	var suggestions []suggest.Suggestion
	if req.Fuzzy {
		suggestions = s.completer.CompleteWithFuzzy(req.Prefix, limit)
	} else {
		suggestions = s.completer.Complete(req.Prefix, limit)
	}
	s.sendCompletions(req.ID, suggestions, start)
}

func (s *Server) handleMatch(req Request) {
	pattern := req.Prefix
	if pattern == "" {
		s.sendError(req.ID, "missing pattern", CodeBadRequest)
		return
	}
	if n := utf8.RuneCountInString(pattern); n > s.config.Trie.MaxPatternLen {
		s.sendError(req.ID, fmt.Sprintf("pattern exceeds maximum length of %d characters", s.config.Trie.MaxPatternLen), CodeBadRequest)
		return
	}
	if s.config.Server.EnableFilter && !utils.IsValidPattern(pattern, s.completer.Wildcard()) {
		s.sendError(req.ID, "pattern contains invalid characters", CodeBadRequest)
		return
	}

	start := time.Now()
	suggestions, err := s.completer.Match(pattern, s.clampLimit(req.Limit))
	if err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}
	s.sendCompletions(req.ID, suggestions, start)
}

func (s *Server) handleLookup(req Request) {
	if err := s.validatePrefix(req.Prefix); err != nil {
		s.sendError(req.ID, err.Error(), CodeBadRequest)
		return
	}

	start := time.Now()
	resp := LookupResponse{ID: req.ID}
	if req.Action == ActionLongest {
		resp.Word = s.completer.LongestPrefix(req.Prefix)
		resp.Found = resp.Word != ""
	} else {
		resp.Word = req.Prefix
		resp.Found = s.completer.Contains(req.Prefix)
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	s.sendResponse(resp)
}

func (s *Server) handleDictionary(req Request) {
	sizer, ok := s.completer.(runtimeSizer)
	if !ok || sizer.Runtime() == nil {
		s.sendResponse(DictionaryResponse{ID: req.ID, Status: "error", Error: "dictionary is not chunk backed"})
		return
	}
	runtime := sizer.Runtime()

	switch req.Action {
	case ActionSetSize:
		if req.ChunkCount == nil {
			s.sendResponse(DictionaryResponse{ID: req.ID, Status: "error", Error: "missing chunk_count"})
			return
		}
		if err := runtime.SetDictionarySize(*req.ChunkCount); err != nil {
			s.sendResponse(DictionaryResponse{ID: req.ID, Status: "error", Error: err.Error()})
			return
		}
		log.Debugf("Dictionary resized to %d chunks", *req.ChunkCount)
		s.sendDictionaryInfo(req.ID, runtime)

	case ActionGetOptions:
		options, err := runtime.SizeOptions()
		if err != nil {
			s.sendResponse(DictionaryResponse{ID: req.ID, Status: "error", Error: err.Error()})
			return
		}
		resp := DictionaryResponse{ID: req.ID, Status: "ok", AvailableChunks: len(options)}
		for _, opt := range options {
			resp.Options = append(resp.Options, DictionarySizeOption{
				ChunkCount: opt.ChunkCount,
				WordCount:  opt.WordCount,
				SizeLabel:  opt.SizeLabel,
			})
		}
		s.sendResponse(resp)

	case ActionRequestMore:
		if req.Words < 1 {
			s.sendResponse(DictionaryResponse{ID: req.ID, Status: "error", Error: "missing words"})
			return
		}
		if err := s.completer.RequestMoreWords(req.Words); err != nil {
			s.sendResponse(DictionaryResponse{ID: req.ID, Status: "error", Error: err.Error()})
			return
		}
		log.Debugf("Requested %d more words", req.Words)
		s.sendDictionaryInfo(req.ID, runtime)

	default:
		s.sendDictionaryInfo(req.ID, runtime)
	}
}

func (s *Server) sendDictionaryInfo(id string, runtime *dictionary.RuntimeLoader) {
	available, err := runtime.AvailableChunkCount()
	if err != nil {
		s.sendResponse(DictionaryResponse{ID: id, Status: "error", Error: err.Error()})
		return
	}
	maxWords, err := runtime.MaxWordsAvailable()
	if err != nil {
		s.sendResponse(DictionaryResponse{ID: id, Status: "error", Error: err.Error()})
		return
	}
	s.sendResponse(DictionaryResponse{
		ID:              id,
		Status:          "ok",
		CurrentChunks:   s.completer.Stats()["loadedChunks"],
		TargetChunks:    runtime.TargetChunks(),
		AvailableChunks: available,
		MaxWords:        maxWords,
	})
}

// sendCompletions ranks suggestions by position, 1 being the best.
func (s *Server) sendCompletions(id string, suggestions []suggest.Suggestion, start time.Time) {
	ranks := utils.CreateRankList(len(suggestions))
	resp := CompletionResponse{
		ID:          id,
		Suggestions: queue.New[CompletionSuggestion](len(suggestions)),
		Count:       len(suggestions),
	}
	for i, sg := range suggestions {
		resp.Suggestions.Enqueue(CompletionSuggestion{Word: sg.Word, Rank: ranks[i]})
	}
	if len(suggestions) > 0 && suggestions[0].WasCorrected {
		resp.CorrectedPrefix = suggestions[0].CorrectedPrefix
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	s.sendResponse(resp)
}

func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
