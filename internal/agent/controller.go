package agent

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/verilens/verilens/internal/cache"
	"github.com/verilens/verilens/internal/dom"
	"github.com/verilens/verilens/internal/model"
	"github.com/verilens/verilens/internal/scanner"
)

const excerptLen = 120

// Controller drives one post's lifecycle: idle until triggered, pending
// while a request is in flight, then resolved or error until re-triggered.
type Controller struct {
	session *Session
	post    *scanner.Post

	state model.PostState
	gen   uint64 // bumped per trigger; stale completions are discarded
	key   string
	text  string
	image string
	last  model.Result
}

// State returns the current lifecycle state
func (c *Controller) State() model.PostState {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	return c.state
}

// LastResult returns the most recently rendered result
func (c *Controller) LastResult() model.Result {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	return c.last
}

// Key returns the fingerprint computed by the latest trigger
func (c *Controller) Key() string {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	return c.key
}

// Trigger runs one analysis pass: extract, fingerprint, cache check, then
// dispatch on a miss. A trigger while a request is already pending for this
// post is a no-op; a re-trigger after a terminal state starts over.
func (c *Controller) Trigger(ctx context.Context) {
	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.state == model.StatePending {
		return
	}

	c.gen++
	gen := c.gen
	c.state = model.StatePending
	c.ensureButton()
	c.setTip(labelWaiting)

	c.text = s.extractor.Text(c.post.Selection())
	c.image = s.extractor.FirstImage(c.post.Selection())
	c.key = cache.Key(c.text, c.image)

	if res, ok := s.results.Get(c.key); ok {
		c.complete(gen, res)
		return
	}

	useText := utf8.RuneCountInString(c.text) >= cache.TextKeyMinLen
	if !useText && c.image == "" {
		c.complete(gen, model.Failure(msgNoContent))
		return
	}

	// One in-flight request per key: later triggers park as waiters and
	// are completed from the first request's response.
	if _, pending := s.inflight[c.key]; pending {
		s.inflight[c.key] = append(s.inflight[c.key], waiter{c, gen})
		return
	}
	s.inflight[c.key] = []waiter{{c, gen}}
	s.wg.Add(1)
	go s.dispatch(ctx, c.key, useText, c.text, c.image)
}

// complete applies a finished result. Caller holds the session lock. A
// completion whose generation was superseded by a newer trigger is dropped
// so stale responses never overwrite newer state.
func (c *Controller) complete(gen uint64, res model.Result) {
	if c.state != model.StatePending || gen != c.gen {
		return
	}
	c.last = res
	if res.Failed() {
		c.state = model.StateError
	} else {
		c.state = model.StateResolved
	}
	c.setTip(RenderResult(res))
}

// ensureButton lazily injects the analyze button. Idempotent; caller holds
// the session lock.
func (c *Controller) ensureButton() {
	sel := c.post.Selection()
	if sel.Find(".verilens-btn").Length() > 0 {
		return
	}
	c.session.doc.MutateQuiet(func(*goquery.Document) {
		sel.AppendHtml(`<button class="verilens-btn" ` + dom.InjectedAttr + `="1" aria-hidden="true">` + labelButton + `</button>`)
	})
}

// ensureTip lazily injects the tooltip and returns it. Idempotent; caller
// holds the session lock.
func (c *Controller) ensureTip() *goquery.Selection {
	sel := c.post.Selection()
	tip := sel.Find(".verilens-tip")
	if tip.Length() > 0 {
		return tip.First()
	}
	c.session.doc.MutateQuiet(func(*goquery.Document) {
		sel.AppendHtml(`<div class="verilens-tip" ` + dom.InjectedAttr + `="1" aria-hidden="true"><div class="vl-body">` + labelPending + `</div></div>`)
	})
	return sel.Find(".verilens-tip").First()
}

// setTip replaces the tooltip body. Caller holds the session lock.
func (c *Controller) setTip(html string) {
	tip := c.ensureTip()
	c.session.doc.MutateQuiet(func(*goquery.Document) {
		tip.Find(".vl-body").SetHtml(html)
	})
}

// TipText returns the tooltip's current rendered text, for inspection
func (c *Controller) TipText() string {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	return strings.TrimSpace(c.post.Selection().Find(".verilens-tip .vl-body").Text())
}

// verdict snapshots the controller for reporting. Caller holds the session
// lock.
func (c *Controller) verdict() model.PostVerdict {
	v := model.PostVerdict{
		Handle:  uint64(c.post.Handle),
		State:   c.state.String(),
		Key:     c.key,
		Excerpt: truncate(c.text, excerptLen),
		Result:  c.last,
	}
	if strings.HasPrefix(c.key, "img:") && c.image != "" {
		v.Image = c.image
	}
	return v
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
