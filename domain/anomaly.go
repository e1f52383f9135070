package domain

type AnomalyKind string

const (
	// AnomalyDuplicateAmount flags an amount repeated inside one document.
	AnomalyDuplicateAmount AnomalyKind = "duplicate-amount-intra-document"
	// AnomalyRepeatedAmount flags an amount already seen in a prior document.
	AnomalyRepeatedAmount AnomalyKind = "repeated-amount-cross-document"
	// AnomalyNewName flags a name candidate absent from the session baseline.
	AnomalyNewName AnomalyKind = "new-name-introduced"
)

// AnomalyRecord is produced at the moment a document is indexed and is
// never amended by later documents.
type AnomalyRecord struct {
	Kind       AnomalyKind `json:"kind"`
	Value      string      `json:"value"`
	DocumentID DocumentID  `json:"document_id"`
	// ReferenceIDs lists the prior documents involved, empty for
	// intra-document duplicates.
	ReferenceIDs []DocumentID `json:"reference_ids,omitempty"`
}
