package model

// Amendment is one amendment extracted from a tabled-amendments document.
//
// An Amendment is only created when a positive number was parsed from the
// marker row and at least one of Old or New is non-empty.
type Amendment struct {
	// Doc is the document reference the amendment was tabled against.
	Doc string `json:"doc"`

	// Number is the amendment number printed after the marker.
	Number int `json:"nr"`

	// Old is the text proposed by the original document.
	Old string `json:"old"`

	// New is the amended text.
	New string `json:"new"`

	// Authors are member ids in signature order, without duplicates.
	Authors []int `json:"authors"`

	// URL is the PDF the amendment was extracted from.
	URL string `json:"url"`
}

// Document is a voted text together with the procedure it belongs to.
type Document struct {
	// Ref is the document reference, e.g. "A9-0100/2024".
	Ref string `json:"ref"`

	// Procedure is the procedure reference, e.g. "2023/0123(COD)".
	Procedure *string `json:"procedure"`

	// URL is the document page the reference was resolved from.
	URL string `json:"url,omitempty"`

	// Unresolved is set when fetching the document page failed. Procedure
	// then falls back to the reference observed on roll-call records.
	Unresolved bool `json:"unresolved,omitempty"`
}
