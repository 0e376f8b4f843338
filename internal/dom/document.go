// Package dom wraps a parsed HTML document with an explicit mutation
// observer surface, standing in for the browser's live DOM so scanning and
// extraction can run and be tested without one.
package dom

import (
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// InjectedAttr marks every node the agent adds to the page. Extraction
// strips marked subtrees so the agent never re-reads its own UI as content.
const InjectedAttr = "data-verilens"

// Document is a mutable HTML document. On its own it is single-goroutine
// only; installing a locker via SetLocker serializes observed mutations
// against whatever else that locker guards, so a host can keep mutating the
// page while agent goroutines write to it under the same lock.
type Document struct {
	doc       *goquery.Document
	locker    sync.Locker
	observers []func()
	notifying bool
	dirty     bool
}

// Parse builds a Document from an HTML stream
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// ParseString builds a Document from an HTML string
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Find runs a CSS selector against the whole document
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// SetLocker installs the lock taken around every observed mutation. The
// caller's other document writes (MutateQuiet, direct reads) must hold the
// same lock. Install before any concurrent use; installation itself is not
// synchronized.
func (d *Document) SetLocker(l sync.Locker) {
	d.locker = l
}

// Observe registers a callback fired after every observed mutation. When a
// locker is installed, callbacks run with it held and must not take it
// again nor call Mutate; further writes from a callback go through
// MutateQuiet.
func (d *Document) Observe(fn func()) {
	d.observers = append(d.observers, fn)
}

// Mutate applies a page-originated change and notifies observers, all under
// the installed locker. Mutations performed from inside an observer
// callback are coalesced into one extra notification pass instead of
// recursing.
func (d *Document) Mutate(fn func(doc *goquery.Document)) {
	if d.locker != nil {
		d.locker.Lock()
		defer d.locker.Unlock()
	}
	fn(d.doc)
	if d.notifying {
		d.dirty = true
		return
	}
	d.notifying = true
	for {
		for _, o := range d.observers {
			o()
		}
		if !d.dirty {
			break
		}
		d.dirty = false
	}
	d.notifying = false
}

// MutateQuiet applies an agent-originated change without notifying
// observers. Injected affordances are tracked by the scanner's handle arena,
// not by mutation events; keeping them unobserved is what breaks the
// feedback loop of the agent reacting to its own DOM writes. The caller
// must already hold the installed locker.
func (d *Document) MutateQuiet(fn func(doc *goquery.Document)) {
	fn(d.doc)
}

// AppendHTML inserts a fragment under the first match of selector as an
// observed mutation. Used to model feed inserts.
func (d *Document) AppendHTML(selector, fragment string) {
	d.Mutate(func(doc *goquery.Document) {
		doc.Find(selector).First().AppendHtml(fragment)
	})
}

// HTML serializes the current document
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}
