package model

// ClaimType categorizes the nature of a factual assertion
type ClaimType string

const (
	ClaimNumeric            ClaimType = "numeric"             // Percentages, counts, money
	ClaimDate               ClaimType = "date"                // Dated events
	ClaimAbsoluteQuantifier ClaimType = "absolute-quantifier" // "first", "largest", "only"
	ClaimAttribution        ClaimType = "attribution"         // "according to", "studies show"
)

// Claim is a candidate factual assertion extracted from the document
type Claim struct {
	Text      string    `json:"text"`
	Offset    int       `json:"offset"`              // Byte offset in document body
	Sentence  int       `json:"sentence"`            // Sentence index (0-based)
	Subject   string    `json:"subject,omitempty"`   // Leading noun-phrase tokens
	Predicate string    `json:"predicate,omitempty"` // Matched declarative verb
	Object    string    `json:"object,omitempty"`    // Measurable object tokens
	Type      ClaimType `json:"type"`
	Heuristic string    `json:"heuristic,omitempty"` // Which extraction rule matched
}

// EvidenceClass classifies the support attached to a claim
type EvidenceClass string

const (
	EvidencePublicVerifiable     EvidenceClass = "public-verifiable"     // Adjacent link/citation/source+date
	EvidenceInternalUnverifiable EvidenceClass = "internal-unverifiable" // Source named, no resolvable link
	EvidenceAbsent               EvidenceClass = "absent"
)

// Evidence is the classification derived next to exactly one claim
type Evidence struct {
	Class     EvidenceClass `json:"class"`
	SourceURL string        `json:"source_url,omitempty"` // The adjacent link, when present
	Note      string        `json:"note,omitempty"`       // Why this classification was chosen
}

// SupportedClaim pairs a claim with its evidence classification (1:1)
type SupportedClaim struct {
	Claim    Claim    `json:"claim"`
	Evidence Evidence `json:"evidence"`
}

// ClaimSet is the claim-to-evidence map for one document version.
// Read-only after construction; accessors hand out copies.
type ClaimSet struct {
	claims []SupportedClaim
}

// NewClaimSet builds an immutable claim set
func NewClaimSet(claims []SupportedClaim) *ClaimSet {
	cp := make([]SupportedClaim, len(claims))
	copy(cp, claims)
	return &ClaimSet{claims: cp}
}

// Len returns the number of claims
func (s *ClaimSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.claims)
}

// Claims returns a copy of the claim/evidence pairs
func (s *ClaimSet) Claims() []SupportedClaim {
	if s == nil {
		return nil
	}
	cp := make([]SupportedClaim, len(s.claims))
	copy(cp, s.claims)
	return cp
}

// CountByClass counts claims carrying the given evidence class
func (s *ClaimSet) CountByClass(class EvidenceClass) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.claims {
		if c.Evidence.Class == class {
			n++
		}
	}
	return n
}
