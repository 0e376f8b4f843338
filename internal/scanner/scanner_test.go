package scanner

import (
	"testing"

	"github.com/verilens/verilens/internal/dom"
)

const feedHTML = `
<html><body>
	<div id="feed">
		<article><p>First post with enough text to matter here.</p></article>
		<article><p>Second post, also plausible content.</p></article>
	</div>
</body></html>`

func newScanner(t *testing.T) (*dom.Document, *Scanner) {
	t.Helper()
	doc, err := dom.ParseString(feedHTML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc, New(doc, "article, [role='article']")
}

func TestScanner_InitialScan(t *testing.T) {
	_, s := newScanner(t)

	var events []Handle
	s.Subscribe(func(p *Post) { events = append(events, p.Handle) })
	s.Start()

	if len(events) != 2 {
		t.Fatalf("expected 2 discoveries, got %d", len(events))
	}
	if events[0] != 1 || events[1] != 2 {
		t.Errorf("handles not monotonic from 1: %v", events)
	}
}

func TestScanner_RepeatedScansAreIdempotent(t *testing.T) {
	_, s := newScanner(t)

	count := 0
	s.Subscribe(func(p *Post) { count++ })
	s.Start()

	for i := 0; i < 5; i++ {
		if got := s.Scan(); len(got) != 0 {
			t.Fatalf("pass %d rediscovered %d posts", i, len(got))
		}
	}
	if count != 2 {
		t.Errorf("expected 2 total discoveries, got %d", count)
	}
}

func TestScanner_MutationDiscoversNewPost(t *testing.T) {
	doc, s := newScanner(t)

	var events []*Post
	s.Subscribe(func(p *Post) { events = append(events, p) })
	s.Start()

	doc.AppendHTML("#feed", `<article role="article"><p>Freshly inserted post content.</p></article>`)

	if len(events) != 3 {
		t.Fatalf("expected 3 discoveries after insert, got %d", len(events))
	}
	if events[2].Handle != 3 {
		t.Errorf("new post got handle %d, want 3", events[2].Handle)
	}

	// The same insert must not be rediscovered on later mutations.
	doc.AppendHTML("#feed", `<div>not a post</div>`)
	if len(events) != 3 {
		t.Errorf("non-post mutation caused discovery, total %d", len(events))
	}
}

func TestScanner_AgentInjectionDoesNotRewire(t *testing.T) {
	doc, s := newScanner(t)

	count := 0
	s.Subscribe(func(p *Post) { count++ })
	s.Start()

	// Injected affordances mutate the document but must never create
	// discoveries, even when the mutation is observed.
	doc.AppendHTML("article", `<button class="verilens-btn" data-verilens="1">Analyze</button>`)
	doc.AppendHTML("article", `<div class="verilens-tip" data-verilens="1"><div class="vl-body">Pending analysis…</div></div>`)

	if count != 2 {
		t.Errorf("agent injection changed wiring: %d discoveries", count)
	}

	first, ok := s.Lookup(1)
	if !ok {
		t.Fatal("handle 1 missing from arena")
	}
	if first.Selection().Find(".verilens-btn").Length() != 1 {
		t.Error("expected injected button inside first post")
	}
}

func TestScanner_CurrentTracksSelectorMatches(t *testing.T) {
	doc, s := newScanner(t)
	s.Start()

	if got := len(s.Current()); got != 2 {
		t.Fatalf("expected 2 current posts, got %d", got)
	}

	doc.AppendHTML("#feed", `<article><p>Third post appears in the feed now.</p></article>`)
	cur := s.Current()
	if len(cur) != 3 {
		t.Fatalf("expected 3 current posts, got %d", len(cur))
	}
	for i, p := range cur {
		if p.Handle != Handle(i+1) {
			t.Errorf("current[%d] handle = %d, want %d", i, p.Handle, i+1)
		}
	}
}
