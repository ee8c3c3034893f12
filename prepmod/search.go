package prepmod

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWaitInterval is the pause before re-requesting a page that came back
// as the waiting room.
const DefaultWaitInterval = 10 * time.Second

// State is a pagination state.
type State int

const (
	// StateSearching fetches the current page
	StateSearching State = iota
	// StateWaitingRoom means the last fetch returned the waiting room
	StateWaitingRoom
	// StateBailed means the waiting room was hit with waiting disabled
	StateBailed
	// StateDone is terminal
	StateDone
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateWaitingRoom:
		return "waiting_room"
	case StateBailed:
		return "bailed"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// PageFetcher fetches a single search page. *Client implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int, filters SearchFilters) (*Page, error)
}

// SearchOptions controls a single search run.
type SearchOptions struct {
	Filters SearchFilters
	// Wait polls through the waiting room instead of giving up
	Wait bool
	// MaxPages stops after this many result pages; 0 means no limit
	MaxPages int
}

// Result is everything a search run gathered.
type Result struct {
	Records []ClinicRecord
	// PagesFetched counts result pages, not waiting-room responses
	PagesFetched       int
	WaitingRoomRetries int
	BailedOut          bool
	// WaitingRoom is the last waiting-room status line seen
	WaitingRoom string
	// LastStatus is the status of the response that ended pagination, if any
	LastStatus int
}

// WithAvailability counts records that have open appointments
func (r *Result) WithAvailability() int {
	var n int
	for _, rec := range r.Records {
		if rec.HasAvailability() {
			n++
		}
	}
	return n
}

// Searcher drives the fetch/parse/extract loop across result pages.
type Searcher struct {
	fetcher      PageFetcher
	extractor    *Extractor
	logger       zerolog.Logger
	out          io.Writer
	sleep        Sleeper
	waitInterval time.Duration
}

// NewSearcher creates a searcher. When fetcher is a *Client, its base URL is
// used for registration links unless WithExtractor overrides the extractor.
func NewSearcher(fetcher PageFetcher, logger zerolog.Logger, opts ...SearcherOption) (*Searcher, error) {
	if fetcher == nil {
		return nil, ErrNoFetcher
	}

	baseURL := DefaultBaseURL
	if c, ok := fetcher.(*Client); ok {
		baseURL = c.BaseURL()
	}

	s := &Searcher{
		fetcher:      fetcher,
		extractor:    NewExtractor(baseURL, logger),
		logger:       logger,
		out:          io.Discard,
		sleep:        sleepContext,
		waitInterval: DefaultWaitInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// run holds the mutable state of one Run call.
type run struct {
	opts   SearchOptions
	page   int
	result Result
}

// Run pages through the search until the site stops returning results, the
// waiting room is hit without Wait, or MaxPages is reached. Only transport
// failures and context cancellation are returned as errors; the partial
// Result is returned alongside them.
func (s *Searcher) Run(ctx context.Context, opts SearchOptions) (*Result, error) {
	r := &run{opts: opts, page: 1}
	state := StateSearching

	for state != StateDone {
		next, err := s.step(ctx, r, state)
		if err != nil {
			r.result.PagesFetched = r.page - 1
			return &r.result, err
		}

		if next != state {
			s.logger.Debug().
				Str("from", state.String()).
				Str("to", next.String()).
				Int("page", r.page).
				Msg("Search state change")
		}
		state = next
	}

	r.result.PagesFetched = r.page - 1
	return &r.result, nil
}

func (s *Searcher) step(ctx context.Context, r *run, state State) (State, error) {
	switch state {
	case StateSearching:
		return s.search(ctx, r)
	case StateWaitingRoom:
		return s.waitingRoom(ctx, r)
	case StateBailed:
		return s.bail(r), nil
	default:
		return StateDone, nil
	}
}

// search fetches the current page and decides what it was.
func (s *Searcher) search(ctx context.Context, r *run) (State, error) {
	if r.opts.MaxPages > 0 && r.page > r.opts.MaxPages {
		s.logger.Debug().Int("max_pages", r.opts.MaxPages).Msg("Page limit reached")
		return StateDone, nil
	}

	page, err := s.fetcher.FetchPage(ctx, r.page, r.opts.Filters)
	if err != nil {
		return StateDone, err
	}
	return s.classify(r, page), nil
}

// classify applies the transition for a fetched page.
func (s *Searcher) classify(r *run, page *Page) State {
	if !page.IsSuccess() {
		r.result.LastStatus = page.StatusCode
		if !page.IsRedirect() {
			s.logger.Warn().
				Int("page", r.page).
				Int("status", page.StatusCode).
				Msg("Page fetch failed with unexpected status")
		}
		return StateDone
	}

	doc := ParseDocument(page.Body)
	if room, ok := DetectWaitingRoom(doc); ok {
		r.result.WaitingRoom = room.Summary
		fmt.Fprintln(s.out, room.Summary)
		return StateWaitingRoom
	}

	records := s.extractor.ExtractPage(doc, r.page)
	s.logger.Debug().
		Int("page", r.page).
		Int("clinics", len(records)).
		Msg("Extracted clinics")

	r.result.Records = append(r.result.Records, records...)
	r.page++
	return StateSearching
}

// waitingRoom either sleeps and retries the same page or gives up.
func (s *Searcher) waitingRoom(ctx context.Context, r *run) (State, error) {
	if !r.opts.Wait {
		return StateBailed, nil
	}

	s.logger.Info().
		Int("page", r.page).
		Dur("interval", s.waitInterval).
		Msg("In the waiting room, retrying")

	if err := s.sleep(ctx, s.waitInterval); err != nil {
		return StateDone, err
	}
	r.result.WaitingRoomRetries++
	return StateSearching, nil
}

func (s *Searcher) bail(r *run) State {
	r.result.BailedOut = true
	fmt.Fprintln(s.out, "Bailing out of the waiting room, use --wait to keep polling")
	return StateDone
}
