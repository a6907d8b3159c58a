package lookup

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/ankidict/internal"
	"codeberg.org/snonux/ankidict/internal/completion"
	"codeberg.org/snonux/ankidict/internal/failure"
	"codeberg.org/snonux/ankidict/internal/logging"
	"codeberg.org/snonux/ankidict/internal/word"
)

// State is the lifecycle state of a session's current lookup.
type State int32

const (
	Idle State = iota
	InFlight
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// PhoneticResolver supplies transcriptions. It must never fail.
type PhoneticResolver interface {
	Resolve(ctx context.Context, word string) string
}

// Config is injected into every lookup.
type Config struct {
	APIKey   string
	Language string // target definition language
	Source   string // default source reference
}

// Request is one lookup.
type Request struct {
	Term    string
	Context string
	Source  string // overrides Config.Source when set
}

// Session serializes lookups for one user.
type Session struct {
	config    Config
	completer completion.Completer
	resolver  PhoneticResolver
	log       *zap.Logger
	now       func() time.Time

	state atomic.Int32
	last  atomic.Pointer[word.Record]
}

// NewSession creates an idle session.
func NewSession(config Config, completer completion.Completer, resolver PhoneticResolver, log *zap.Logger) *Session {
	if config.Language == "" {
		config.Language = "English"
	}
	return &Session{
		config:    config,
		completer: completer,
		resolver:  resolver,
		log:       logging.OrNop(log),
		now:       time.Now,
	}
}

// State returns the state of the current or last lookup.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Last returns the record of the last completed lookup, or nil.
func (s *Session) Last() *word.Record {
	return s.last.Load()
}

// Lookup runs one lookup. It fails with failure.Busy, without touching the
// network, when another lookup of this session is in flight.
func (s *Session) Lookup(ctx context.Context, req Request) (rec *word.Record, err error) {
	if !s.acquire() {
		return nil, failure.New(failure.Busy, "lookup", "lookup already in progress").
			WithHint("wait for the current lookup to finish")
	}
	defer func() {
		if rec != nil && err == nil {
			s.last.Store(rec)
			s.state.Store(int32(Completed))
			return
		}
		s.state.Store(int32(Failed))
	}()

	return s.run(ctx, req)
}

// acquire moves the session to InFlight unless it already is.
func (s *Session) acquire() bool {
	for {
		cur := s.state.Load()
		if State(cur) == InFlight {
			return false
		}
		if s.state.CompareAndSwap(cur, int32(InFlight)) {
			return true
		}
	}
}

func (s *Session) run(ctx context.Context, req Request) (*word.Record, error) {
	term := strings.TrimSpace(req.Term)
	if term == "" {
		return nil, failure.New(failure.InvalidInput, "lookup", "term cannot be empty").
			WithHint("select or type a word first")
	}
	if s.config.APIKey == "" {
		return nil, failure.New(failure.MissingCredential, "lookup", "API key not configured").
			WithHint("set llm.api_key or pass --api-key")
	}

	s.log.Debug("looking up term", zap.String("term", term), zap.String("language", s.config.Language))

	entry, err := s.completer.Complete(ctx, completion.Request{
		APIKey:         s.config.APIKey,
		Term:           term,
		Context:        strings.TrimSpace(req.Context),
		TargetLanguage: s.config.Language,
	})
	if err != nil {
		return nil, err
	}

	rec := normalize(entry, term)

	source := req.Source
	if source == "" {
		source = s.config.Source
	}
	rec.SourceReference = sourceLink(source)
	rec.RecordID = internal.RecordIDAt(term, s.now())

	if rec.Phonetic == "" && s.resolver != nil {
		rec.Phonetic = s.resolver.Resolve(ctx, term)
	}
	if rec.Phonetic == "" {
		rec.Phonetic = word.PlaceholderPhonetic(term)
	}

	s.log.Info("lookup completed",
		zap.String("term", term),
		zap.String("record_id", rec.RecordID),
		zap.Int("examples", len(rec.Examples)))
	return &rec, nil
}
