// Package scanner discovers post containers in a mutable document and
// guarantees each is wired exactly once, tracked by a stable handle rather
// than raw node identity.
package scanner

import (
	"sort"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/verilens/verilens/internal/dom"
)

// Handle is a stable opaque id for a discovered post. Handles are assigned
// monotonically and never reused within a scanner.
type Handle uint64

// Post is one discovered container
type Post struct {
	Handle Handle
	node   *html.Node
	sel    *goquery.Selection
}

// Selection returns the post's root as a one-element selection
func (p *Post) Selection() *goquery.Selection {
	return p.sel
}

// Subscriber receives discovery events. The scanner invokes it once per
// post, at discovery time, from whatever goroutine ran the scan.
type Subscriber func(p *Post)

// Scanner finds post containers matching a CSS selector. Removal from the
// document needs no teardown: a removed post simply stops matching and its
// arena entry goes cold.
type Scanner struct {
	doc      *dom.Document
	selector string
	seen     map[*html.Node]Handle
	arena    map[Handle]*Post
	next     Handle
	sub      Subscriber
}

// New creates a scanner over doc for the given post selector
func New(doc *dom.Document, selector string) *Scanner {
	return &Scanner{
		doc:      doc,
		selector: selector,
		seen:     make(map[*html.Node]Handle),
		arena:    make(map[Handle]*Post),
	}
}

// Subscribe registers the discovery subscriber. Must be set before Start.
func (s *Scanner) Subscribe(sub Subscriber) {
	s.sub = sub
}

// Start runs the initial full scan and rescans after every observed
// document mutation. The caller is responsible for serializing scans with
// its own state; the scanner itself holds no lock.
func (s *Scanner) Start() {
	s.doc.Observe(func() { s.Scan() })
	s.Scan()
}

// Scan walks the current selector matches and wires anything unseen,
// returning the newly discovered posts. Repeated passes over an already
// wired element are no-ops.
func (s *Scanner) Scan() []*Post {
	var discovered []*Post
	s.doc.Find(s.selector).Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if _, ok := s.seen[node]; ok {
			return
		}
		s.next++
		post := &Post{Handle: s.next, node: node, sel: sel}
		s.seen[node] = post.Handle
		s.arena[post.Handle] = post
		discovered = append(discovered, post)
		if s.sub != nil {
			s.sub(post)
		}
	})
	return discovered
}

// Current returns the posts whose containers still match the selector, in
// handle order. Used by the analyze-all broadcast.
func (s *Scanner) Current() []*Post {
	var posts []*Post
	s.doc.Find(s.selector).Each(func(_ int, sel *goquery.Selection) {
		if h, ok := s.seen[sel.Get(0)]; ok {
			posts = append(posts, s.arena[h])
		}
	})
	sort.Slice(posts, func(i, j int) bool { return posts[i].Handle < posts[j].Handle })
	return posts
}

// Lookup resolves a handle
func (s *Scanner) Lookup(h Handle) (*Post, bool) {
	p, ok := s.arena[h]
	return p, ok
}

// Posts returns every post ever discovered, in handle order
func (s *Scanner) Posts() []*Post {
	posts := make([]*Post, 0, len(s.arena))
	for _, p := range s.arena {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Handle < posts[j].Handle })
	return posts
}
