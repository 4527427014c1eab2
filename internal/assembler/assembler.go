// Package assembler converts partitioned document elements into
// length-bounded, provenance-tagged chunks ready for embedding and
// retrieval. Assembly is an offline, indexing-time operation.
package assembler

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/archivist-labs/docqa/internal/core/domain"
)

// Default assembly limits, in token-equivalent units (whitespace
// tokens) except DefaultMinElementLength, which is characters.
const (
	DefaultMaxLength        = 900
	DefaultOverlap          = 120
	DefaultMinElementLength = 25
)

// Assembler builds chunks from ordered normalized elements.
type Assembler struct {
	maxLength        int
	overlap          int
	minElementLength int
	respectHeadings  bool
	keepTablesIntact bool
	combineShort     bool
	strategy         string
}

// Option configures the assembler.
type Option func(*Assembler)

// WithMaxLength sets the token budget per chunk.
func WithMaxLength(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.maxLength = n
		}
	}
}

// WithOverlap sets the number of trailing tokens carried into the next
// chunk.
func WithOverlap(n int) Option {
	return func(a *Assembler) {
		if n >= 0 {
			a.overlap = n
		}
	}
}

// WithMinElementLength sets the character length below which elements
// are considered short and eligible for combining.
func WithMinElementLength(n int) Option {
	return func(a *Assembler) {
		if n >= 0 {
			a.minElementLength = n
		}
	}
}

// WithRespectHeadings controls whether a heading element starts a new
// chunk and labels the following section.
func WithRespectHeadings(v bool) Option {
	return func(a *Assembler) { a.respectHeadings = v }
}

// WithKeepTablesIntact controls whether table elements are rendered as
// wrapped markup and never split across chunks.
func WithKeepTablesIntact(v bool) Option {
	return func(a *Assembler) { a.keepTablesIntact = v }
}

// WithCombineShort controls whether short elements are merged into the
// running chunk when the budget allows.
func WithCombineShort(v bool) Option {
	return func(a *Assembler) { a.combineShort = v }
}

// WithStrategy records the parsing fidelity hint. It is passed through
// to the external partitioner and not consumed during assembly.
func WithStrategy(s string) Option {
	return func(a *Assembler) {
		if s != "" {
			a.strategy = s
		}
	}
}

// New creates an assembler with the given options.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		maxLength:        DefaultMaxLength,
		overlap:          DefaultOverlap,
		minElementLength: DefaultMinElementLength,
		respectHeadings:  true,
		keepTablesIntact: true,
		combineShort:     true,
		strategy:         "fast",
	}

	for _, opt := range opts {
		opt(a)
	}

	// Overlap must leave room for new content in every chunk.
	if a.overlap >= a.maxLength {
		a.overlap = a.maxLength / 4
	}

	return a
}

// Strategy returns the parsing fidelity hint for the partitioner.
func (a *Assembler) Strategy() string {
	return a.strategy
}

// buffer accumulates element representations until a chunk is flushed.
type buffer struct {
	parts   []string
	ids     []string
	pages   []int
	regions []*domain.Region
}

func (b *buffer) add(rep string, el domain.NormalizedElement) {
	b.parts = append(b.parts, rep)
	b.ids = append(b.ids, el.ID)
	if el.Page != nil {
		b.pages = append(b.pages, *el.Page)
	}
	b.regions = append(b.regions, el.Region)
}

func (b *buffer) reset() {
	b.parts = b.parts[:0]
	b.ids = b.ids[:0]
	b.pages = b.pages[:0]
	b.regions = b.regions[:0]
}

func (b *buffer) text() string {
	return strings.TrimSpace(strings.Join(b.parts, "\n"))
}

// Assemble converts the ordered element sequence into chunks. The
// input is never mutated; re-running over identical elements and
// options yields identical chunk IDs.
func (a *Assembler) Assemble(elements []domain.NormalizedElement, src domain.SourceInfo) []domain.Chunk {
	var (
		chunks  []domain.Chunk
		buf     buffer
		section string
	)

	// flush emits the buffered content as one chunk. A forced flush
	// never carries overlap; a regular flush seeds the next buffer
	// with the trailing overlap tokens, deliberately dropping element
	// and page tracking across the boundary.
	flush := func(force bool) {
		text := buf.text()
		if text == "" {
			buf.reset()
			return
		}

		length := TokenLen(text)
		chunk := domain.Chunk{
			ID:         chunkID(text, buf.ids),
			Text:       text,
			Length:     length,
			ElementIDs: append([]string(nil), buf.ids...),
			Pages:      uniqueSorted(buf.pages),
			Source:     src,
			Section:    section,
			Region:     mergeRegions(buf.regions),
		}
		chunks = append(chunks, chunk)

		if force || a.overlap == 0 || length <= a.overlap {
			buf.reset()
			return
		}

		tail := trailingTokens(text, a.overlap)
		buf.reset()
		buf.parts = append(buf.parts, tail)
	}

	curLen := func() int {
		return TokenLen(buf.text())
	}

	for _, el := range elements {
		isTable := el.Kind == domain.ElementTable

		if a.respectHeadings && el.Kind == domain.ElementHeading {
			flush(true)
			section = strings.TrimSpace(el.Text)
		}

		rep := a.represent(el)
		if rep == "" {
			continue
		}

		// Short elements merge into the running chunk when the budget
		// still allows.
		if a.combineShort && len(rep) < a.minElementLength {
			if curLen()+TokenLen(rep) <= a.maxLength {
				buf.add(rep, el)
			} else {
				flush(false)
				buf.add(rep, el)
			}
			continue
		}

		// An element that alone exceeds the budget is force-split into
		// fitting pieces, one flushed chunk per piece.
		repLen := TokenLen(rep)
		if repLen > a.maxLength {
			flush(false)
			for _, piece := range splitOversized(rep, a.maxLength) {
				buf.add(piece, el)
				flush(false)
			}
			continue
		}

		if curLen()+repLen <= a.maxLength {
			buf.add(rep, el)
		} else {
			flush(false)
			buf.add(rep, el)
		}

		// Tables are always chunk-terminal.
		if isTable {
			flush(false)
		}
	}

	flush(true)
	return chunks
}

// represent renders one element as chunk text. Tables render as
// wrapped markup when they are kept intact; everything else renders as
// plain text. An empty representation drops the element.
func (a *Assembler) represent(el domain.NormalizedElement) string {
	if el.Kind == domain.ElementTable && a.keepTablesIntact && el.TableMarkup != "" {
		return "[TABLE]\n" + strings.TrimSpace(el.TableMarkup) + "\n[/TABLE]"
	}
	return strings.TrimSpace(el.Text)
}

// chunkID derives the stable content hash: normalized text plus the
// joined contributing element ids. Identical content always yields the
// same identifier, independent of chunk ordering context.
func chunkID(text string, elementIDs []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(strings.Fields(text), " ")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(elementIDs, ",")))
	return hex.EncodeToString(h.Sum(nil))
}

// mergeRegions returns the smallest rectangle covering every non-nil
// region, or nil when no element carried one.
func mergeRegions(regions []*domain.Region) *domain.Region {
	var merged *domain.Region
	for _, r := range regions {
		if r == nil {
			continue
		}
		if merged == nil {
			cp := *r
			merged = &cp
			continue
		}
		u := merged.Union(*r)
		merged = &u
	}
	return merged
}

func uniqueSorted(pages []int) []int {
	if len(pages) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(pages))
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
