package domain

// Region is an axis-aligned rectangle in page coordinates.
type Region struct {
	// X0, Y0 is the top-left corner.
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`

	// X1, Y1 is the bottom-right corner.
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Union returns the smallest region covering both r and other.
func (r Region) Union(other Region) Region {
	out := r
	if other.X0 < out.X0 {
		out.X0 = other.X0
	}
	if other.Y0 < out.Y0 {
		out.Y0 = other.Y0
	}
	if other.X1 > out.X1 {
		out.X1 = other.X1
	}
	if other.Y1 > out.Y1 {
		out.Y1 = other.Y1
	}
	return out
}

// SourceInfo identifies the file a chunk was assembled from.
type SourceInfo struct {
	// Filename is the base name of the source file.
	Filename string `json:"filename"`

	// SHA256 is the content hash of the source file, used for
	// idempotent re-indexing.
	SHA256 string `json:"sha256"`
}

// Chunk is a retrieval unit: a bounded, provenance-tagged span of
// document text prepared for embedding and similarity search.
// Chunks are immutable once emitted by the assembler.
type Chunk struct {
	// ID is a content-derived identifier: the same text assembled from
	// the same elements always yields the same ID, independent of
	// ordering context.
	ID string `json:"chunk_id"`

	// Text is the chunk body.
	Text string `json:"text"`

	// Length is the token-equivalent length of Text.
	Length int `json:"length"`

	// ElementIDs lists the contributing elements, in order.
	ElementIDs []string `json:"from_elements"`

	// Pages is the sorted set of page numbers covered.
	Pages []int `json:"page_numbers"`

	// Source is the originating file identity.
	Source SourceInfo `json:"source"`

	// Section is the heading the chunk falls under, when headings are
	// respected during assembly.
	Section string `json:"section,omitempty"`

	// Region is the merged bounding region of the contributing
	// elements; nil when no element carried one.
	Region *Region `json:"region,omitempty"`
}
