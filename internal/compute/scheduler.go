// Package compute schedules diff computations from a bubbletea program.
//
// Each Schedule call starts a new generation and a debounce timer. When a
// timer fires for the newest generation the diff runs as a command; a
// trigger that arrives while a diff is running is parked as the single
// pending request and started once the running one reports back; a newer
// Schedule or Now drops the parked request before it runs. Results
// from older generations are reported as stale so the caller can drop them.
package compute

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// TriggerMsg is delivered when a debounce timer expires
type TriggerMsg struct {
	Session string
	Gen     uint64
}

// ResultMsg carries a finished computation
type ResultMsg struct {
	Session string
	Gen     uint64
	Result  linediff.Result
	Elapsed time.Duration
	Warning string // set for inputs larger than the warning threshold
}

type request struct {
	gen      uint64
	original []string
	modified []string
}

// Scheduler debounces and serializes diff computations for one session.
// It is not safe for concurrent use; call it from the Update loop only.
type Scheduler struct {
	id        string
	delay     time.Duration
	warnCells int
	logger    *slog.Logger

	gen     uint64
	latest  request
	running bool
	pending *request
}

// NewScheduler creates a scheduler with its own session ID
func NewScheduler(delay time.Duration, warnCells int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	return &Scheduler{
		id:        id,
		delay:     delay,
		warnCells: warnCells,
		logger:    logger.With("session", id),
	}
}

// ID returns the session ID stamped on every message
func (s *Scheduler) ID() string {
	return s.id
}

// Generation returns the newest generation number
func (s *Scheduler) Generation() uint64 {
	return s.gen
}

// Running reports whether a computation is in flight
func (s *Scheduler) Running() bool {
	return s.running
}

// Pending reports whether a request is waiting for the running one
func (s *Scheduler) Pending() bool {
	return s.pending != nil
}

// Schedule supersedes any earlier request and starts the debounce timer
func (s *Scheduler) Schedule(original, modified []string) tea.Cmd {
	s.next(original, modified)
	if s.delay <= 0 {
		return s.start(s.latest)
	}

	id, gen := s.id, s.gen
	s.logger.Debug("diff scheduled", "gen", gen, "delay", s.delay)
	return tea.Tick(s.delay, func(time.Time) tea.Msg {
		return TriggerMsg{Session: id, Gen: gen}
	})
}

// Now supersedes any earlier request and computes without waiting
func (s *Scheduler) Now(original, modified []string) tea.Cmd {
	s.next(original, modified)
	return s.start(s.latest)
}

// Fire handles an expired timer. Timers of superseded generations are
// ignored.
func (s *Scheduler) Fire(msg TriggerMsg) tea.Cmd {
	if msg.Session != s.id || msg.Gen != s.gen {
		return nil
	}
	return s.start(s.latest)
}

// Accept handles a finished computation. It reports whether the result
// belongs to the newest generation and returns the command for a parked
// request, if any.
func (s *Scheduler) Accept(msg ResultMsg) (bool, tea.Cmd) {
	if msg.Session != s.id {
		return false, nil
	}
	s.running = false

	var next tea.Cmd
	if req := s.pending; req != nil {
		s.pending = nil
		if req.gen == s.gen {
			next = s.start(*req)
		}
	}

	current := msg.Gen == s.gen
	if current {
		s.logger.Info("diff computed",
			"gen", msg.Gen,
			"rows", len(msg.Result.Rows),
			"elapsed", msg.Elapsed)
	} else {
		s.logger.Debug("stale diff dropped", "gen", msg.Gen, "latest", s.gen)
	}
	return current, next
}

// Warning returns a message when the inputs are large enough that the
// diff may be slow, or "" otherwise
func (s *Scheduler) Warning(original, modified []string) string {
	cells := int64(len(original)) * int64(len(modified))
	if s.warnCells <= 0 || cells <= int64(s.warnCells) {
		return ""
	}
	return fmt.Sprintf("large input (%d x %d lines), diff may be slow", len(original), len(modified))
}

func (s *Scheduler) next(original, modified []string) {
	s.gen++
	s.latest = request{gen: s.gen, original: original, modified: modified}

	// A parked request is never worth running once a newer one exists
	if s.pending != nil && s.pending.gen < s.gen {
		s.logger.Debug("parked diff dropped", "gen", s.pending.gen, "latest", s.gen)
		s.pending = nil
	}
}

func (s *Scheduler) start(req request) tea.Cmd {
	if s.running {
		s.pending = &req
		s.logger.Debug("diff parked", "gen", req.gen)
		return nil
	}
	s.running = true

	id := s.id
	warning := s.Warning(req.original, req.modified)
	if warning != "" {
		s.logger.Warn(warning, "gen", req.gen)
	}
	return func() tea.Msg {
		began := time.Now()
		res := linediff.CompareLines(req.original, req.modified)
		return ResultMsg{
			Session: id,
			Gen:     req.gen,
			Result:  res,
			Elapsed: time.Since(began),
			Warning: warning,
		}
	}
}
