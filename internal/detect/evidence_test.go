package detect

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vkuzmenko/citescope/internal/model"
)

func claimSet(verifiable, unverifiable, absent int) *model.ClaimSet {
	var claims []model.SupportedClaim
	add := func(n int, class model.EvidenceClass) {
		for i := 0; i < n; i++ {
			claims = append(claims, model.SupportedClaim{
				Claim:    model.Claim{Text: fmt.Sprintf("claim %s %d", class, i), Type: model.ClaimNumeric},
				Evidence: model.Evidence{Class: class},
			})
		}
	}
	add(verifiable, model.EvidencePublicVerifiable)
	add(unverifiable, model.EvidenceInternalUnverifiable)
	add(absent, model.EvidenceAbsent)
	return model.NewClaimSet(claims)
}

func TestEvidenceDensityThreeOfFour(t *testing.T) {
	d := &EvidenceDensityDetector{}
	result := d.Evaluate(nil, claimSet(3, 1, 0))
	if result.Score != 75 {
		t.Errorf("score = %v, want 75", result.Score)
	}
}

func TestEvidenceDensityZeroClaims(t *testing.T) {
	d := &EvidenceDensityDetector{}
	result := d.Evaluate(nil, claimSet(0, 0, 0))
	if result.Score != 100 {
		t.Errorf("score with zero claims = %v, want 100", result.Score)
	}
	if len(result.Breakdown) == 0 ||
		!strings.Contains(result.Breakdown[0].Explanation, "No factual claims") {
		t.Error("zero-claim result should carry the explanatory note")
	}
}

// Adding a verifiable claim to any claim set never lowers the score
func TestEvidenceDensityMonotonic(t *testing.T) {
	d := &EvidenceDensityDetector{}
	for verifiable := 0; verifiable <= 5; verifiable++ {
		for absent := 0; absent <= 5; absent++ {
			before := d.Evaluate(nil, claimSet(verifiable, 0, absent)).Score
			after := d.Evaluate(nil, claimSet(verifiable+1, 0, absent)).Score
			if after < before {
				t.Errorf("score dropped from %v to %v after adding a verifiable claim (v=%d a=%d)",
					before, after, verifiable, absent)
			}
		}
	}
}

func TestEvidenceDensityAllAbsent(t *testing.T) {
	d := &EvidenceDensityDetector{}
	result := d.Evaluate(nil, claimSet(0, 0, 4))
	if result.Score != 0 {
		t.Errorf("score = %v, want 0", result.Score)
	}
	if len(result.Breakdown) == 0 || len(result.Breakdown[0].Recommendations) == 0 {
		t.Error("unverified claims should produce recommendations")
	}
}
