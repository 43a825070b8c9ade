package detect

import (
	"testing"
	"time"

	"github.com/vkuzmenko/citescope/internal/model"
)

func TestInfrastructureNeutralWithoutFetch(t *testing.T) {
	d := &InfrastructureDetector{}

	// Local HTML parses with markup but carries no transport signals
	local := &model.StructuredDocument{Body: "Fan tokens let fans vote."}
	if got := d.Evaluate(local, nil).Score; got != 70 {
		t.Errorf("unfetched document score = %v, want neutral 70", got)
	}

	raw := &model.StructuredDocument{Body: "Fan tokens let fans vote.", IsRawText: true}
	if got := d.Evaluate(raw, nil).Score; got != 70 {
		t.Errorf("raw text score = %v, want neutral 70", got)
	}
}

func TestInfrastructureScoresFetchedTransport(t *testing.T) {
	d := &InfrastructureDetector{}

	insecure := &model.StructuredDocument{Fetched: true}
	if got := d.Evaluate(insecure, nil).Score; got >= 70 {
		t.Errorf("fetched HTTP/CSR score = %v, want below neutral", got)
	}

	healthy := &model.StructuredDocument{
		Fetched:  true,
		IsHTTPS:  true,
		IsSSR:    true,
		LoadTime: time.Second,
	}
	if got := d.Evaluate(healthy, nil).Score; got != 100 {
		t.Errorf("HTTPS+SSR+fast score = %v, want 100", got)
	}
}
