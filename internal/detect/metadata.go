package detect

import (
	"fmt"
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// MetadataDetector scores structured-data coverage from the presence flags
// the builder recovered; absence of schema is a scoring signal here, never
// an error.
type MetadataDetector struct{}

const (
	schemaPresenceWeight = 0.40
	criticalTypesWeight  = 0.40
	entityDepthWeight    = 0.20
)

var criticalSchemaTypes = map[string]bool{
	"Article": true, "BlogPosting": true, "NewsArticle": true,
	"FAQPage": true, "HowTo": true, "Product": true,
}

func (d *MetadataDetector) Dimension() model.Dimension { return model.DimMetadata }

func (d *MetadataDetector) Evaluate(doc *model.StructuredDocument, _ *model.ClaimSet) model.DimensionResult {
	presence := 0.0
	presenceExplain := "No JSON-LD or microdata detected."
	var presenceRecs []string
	if doc.Meta.HasSchema {
		presence = 100
		presenceExplain = "Structured data block present."
	} else {
		presenceRecs = append(presenceRecs, "Add a JSON-LD block describing the page.")
	}

	var critical []string
	for _, t := range doc.Meta.SchemaTypes {
		if criticalSchemaTypes[t] {
			critical = append(critical, t)
		}
	}
	typesScore := 0.0
	typesExplain := "No Article/FAQPage/Product schema type found."
	var typesRecs []string
	if len(critical) > 0 {
		typesScore = 100
		typesExplain = fmt.Sprintf("Critical schema types present: %s.", strings.Join(critical, ", "))
	} else if doc.Meta.HasSchema {
		typesScore = 30
		typesExplain = "Schema present but no content-bearing type (Article, FAQPage, Product)."
		typesRecs = append(typesRecs, "Type the main content as Article or FAQPage, not just WebPage.")
	} else {
		typesRecs = append(typesRecs, "Describe the page as an Article or FAQPage in structured data.")
	}

	depthScore := 0.0
	depthExplain := "No Person or Organization entity in structured data."
	var depthRecs []string
	if doc.Meta.HasAuthorSchema {
		depthScore = 100
		depthExplain = "Author entity (Person/Organization) present in structured data."
	} else {
		depthRecs = append(depthRecs, "Attach a Person entity for the author to the Article schema.")
	}

	breakdown := []model.SubCheck{
		subCheck("Schema Presence", presence, schemaPresenceWeight, presenceExplain, presenceRecs...),
		subCheck("Critical Schema Types", typesScore, criticalTypesWeight, typesExplain, typesRecs...),
		subCheck("Entity Depth", depthScore, entityDepthWeight, depthExplain, depthRecs...),
	}

	return model.DimensionResult{
		Dimension: d.Dimension(),
		Score:     total(breakdown),
		Breakdown: breakdown,
		Debug:     map[string]any{"schema_types": doc.Meta.SchemaTypes},
	}
}
