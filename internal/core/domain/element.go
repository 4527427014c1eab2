package domain

// ElementKind classifies a parsed document element.
type ElementKind string

// Element kinds produced by the external partitioner.
const (
	ElementHeading ElementKind = "heading"
	ElementTable   ElementKind = "table"
	ElementBody    ElementKind = "body"
	ElementOther   ElementKind = "other"
)

// NormalizedElement is one atomic parsed unit of a source document.
// Elements are produced by an external partitioner and are input-only:
// the assembler never mutates them.
type NormalizedElement struct {
	// ID is the stable identifier assigned by the partitioner.
	ID string `json:"element_id"`

	// Kind classifies the element (heading, table, body, other).
	Kind ElementKind `json:"kind"`

	// Text is the plain text content. May be empty for table elements
	// that only carry markup.
	Text string `json:"text"`

	// Page is the originating page number, when known.
	Page *int `json:"page_number,omitempty"`

	// TableMarkup holds the table's markup representation, when the
	// element is a table and the partitioner extracted it.
	TableMarkup string `json:"table_markup,omitempty"`

	// Region is the positional bounding region on the page, when known.
	Region *Region `json:"region,omitempty"`
}

// IsEmpty reports whether the element carries no usable content.
func (e NormalizedElement) IsEmpty() bool {
	return e.Text == "" && e.TableMarkup == ""
}
