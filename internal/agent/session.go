// Package agent orchestrates post lifecycles on one page: discovery wiring,
// the per-post state machine, the fingerprint cache, and dispatch to the
// analysis backend.
package agent

import (
	"context"
	"sync"
	"time"

	"github.com/verilens/verilens/internal/backend"
	"github.com/verilens/verilens/internal/cache"
	"github.com/verilens/verilens/internal/dom"
	"github.com/verilens/verilens/internal/extract"
	"github.com/verilens/verilens/internal/model"
	"github.com/verilens/verilens/internal/scanner"
)

// Options configures a session
type Options struct {
	Provider backend.Provider
	Store    *cache.SnapshotStore // optional last-result persistence
	PageURL  string
	Selector string        // post container selector; defaulted when empty
	Timeout  time.Duration // bounded wait per backend request
}

// waiter is one parked trigger awaiting a coalesced in-flight request
type waiter struct {
	c   *Controller
	gen uint64
}

// Session owns all mutable state for one page. Session state, the document,
// and every controller are serialized by one mutex: triggers take it
// directly, host page mutations take it through the document's installed
// locker, and backend completions re-enter through it.
type Session struct {
	mu          sync.Mutex
	doc         *dom.Document
	scanner     *scanner.Scanner
	extractor   *extract.Extractor
	provider    backend.Provider
	results     *cache.ResultCache
	store       *cache.SnapshotStore
	pageURL     string
	timeout     time.Duration
	controllers map[scanner.Handle]*Controller
	inflight    map[string][]waiter
	wg          sync.WaitGroup
}

// NewSession creates a session over a parsed document
func NewSession(doc *dom.Document, opts Options) *Session {
	selector := opts.Selector
	if selector == "" {
		selector = model.DefaultConfig().Scanner.Selector
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	s := &Session{
		doc:         doc,
		extractor:   extract.NewExtractor(),
		provider:    opts.Provider,
		results:     cache.NewResultCache(),
		store:       opts.Store,
		pageURL:     opts.PageURL,
		timeout:     timeout,
		controllers: make(map[scanner.Handle]*Controller),
		inflight:    make(map[string][]waiter),
	}
	s.scanner = scanner.New(doc, selector)
	// Scans only ever run with s.mu held, so wiring needs no extra lock.
	s.scanner.Subscribe(s.wire)
	// Host mutations take the session mutex too, so page writes and
	// backend completions are serialized against each other.
	doc.SetLocker(&s.mu)
	return s
}

// Start runs the initial scan and rescans after every observed document
// mutation. Each discovered post is wired exactly once. The observer runs
// under s.mu: the document holds it for the whole mutate-and-notify pass.
func (s *Session) Start() {
	s.doc.Observe(func() {
		s.scanner.Scan()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanner.Scan()
}

// wire attaches a controller and its button to a newly discovered post.
// Caller holds s.mu.
func (s *Session) wire(p *scanner.Post) {
	c := &Controller{session: s, post: p}
	s.controllers[p.Handle] = c
	c.ensureButton()
}

// AnalyzeAll is the broadcast trigger: every container currently matching
// the post selector is analyzed, wiring any stragglers first.
func (s *Session) AnalyzeAll(ctx context.Context) {
	s.mu.Lock()
	s.scanner.Scan()
	posts := s.scanner.Current()
	ctrls := make([]*Controller, 0, len(posts))
	for _, p := range posts {
		if c, ok := s.controllers[p.Handle]; ok {
			ctrls = append(ctrls, c)
		}
	}
	s.mu.Unlock()

	for _, c := range ctrls {
		c.Trigger(ctx)
	}
}

// Wait blocks until every dispatched backend request has completed
func (s *Session) Wait() {
	s.wg.Wait()
}

// Controller returns the controller wired to a handle
func (s *Session) Controller(h scanner.Handle) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controllers[h]
	return c, ok
}

// Verdicts reports every wired post's current state in handle order
func (s *Session) Verdicts() []model.PostVerdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := s.scanner.Posts()
	verdicts := make([]model.PostVerdict, 0, len(posts))
	for _, p := range posts {
		c, ok := s.controllers[p.Handle]
		if !ok {
			continue
		}
		verdicts = append(verdicts, c.verdict())
	}
	return verdicts
}

// dispatch performs one coalesced backend request and completes every
// waiter parked on its key. Runs outside the session lock.
func (s *Session) dispatch(parent context.Context, key string, useText bool, text, image string) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	var res model.Result
	var err error
	if useText {
		res, err = s.provider.AnalyzeText(ctx, text)
	} else {
		res, err = s.provider.AnalyzeImage(ctx, image)
	}
	if err != nil {
		res = model.Failure(msgTransport)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Only completed successes enter the cache; failures stay
	// re-triggerable.
	if err == nil && !res.Failed() {
		s.results.Put(key, res)
		s.persist(res)
	}

	waiters := s.inflight[key]
	delete(s.inflight, key)
	for _, w := range waiters {
		w.c.complete(w.gen, res)
	}
}

// persist saves the last-result snapshot for the popup collaborator.
// Best-effort: a failed write never disturbs the page session.
func (s *Session) persist(res model.Result) {
	if s.store == nil {
		return
	}
	if snap, ok := model.SnapshotFrom(res, s.pageURL, time.Now().UTC()); ok {
		_ = s.store.Save(snap)
	}
}
