package extraction

import (
	"strings"

	apperrors "github.com/anime-shed/doc-insight-go/internal/errors"

	"github.com/arbovm/levenshtein"
)

// Service choices offered to users
const (
	ServiceInvoices       = "Invoices"
	ServiceReceipts       = "Receipts"
	ServiceAWB            = "AWB"
	ServiceOtherDocuments = "Other Documents"
)

// Default analysis model identifiers
const (
	ModelPrebuiltInvoice = "prebuilt-invoice"
	ModelPrebuiltReceipt = "prebuilt-receipt"
	ModelFinanceInsight  = "finance_insight"
	ModelFinanceDocument = "finance_document"
)

// maxSuggestionDistance bounds how far a typo may be from a known choice
// before no suggestion is offered.
const maxSuggestionDistance = 3

type choice struct {
	service string
	schema  string
	model   string
}

var choices = []choice{
	{service: ServiceInvoices, schema: SchemaInvoice, model: ModelPrebuiltInvoice},
	{service: ServiceReceipts, schema: SchemaReceipt, model: ModelPrebuiltReceipt},
	{service: ServiceAWB, schema: SchemaAirwayBill, model: ModelFinanceInsight},
	{service: ServiceOtherDocuments, schema: SchemaFinanceDocument, model: ModelFinanceDocument},
}

func lookupChoice(service string) (choice, bool) {
	normalized := strings.TrimSpace(service)
	for _, c := range choices {
		if strings.EqualFold(c.service, normalized) {
			return c, true
		}
	}
	return choice{}, false
}

func unknownService(service string) error {
	return apperrors.NewUnknownServiceError(service, suggest(service))
}

// suggest returns the known choice closest to service, or "" when none is
// close enough.
func suggest(service string) string {
	normalized := strings.ToLower(strings.TrimSpace(service))
	if normalized == "" {
		return ""
	}

	best, bestDist := "", maxSuggestionDistance+1
	for _, c := range choices {
		d := levenshtein.Distance(normalized, strings.ToLower(c.service))
		if d < bestDist {
			best, bestDist = c.service, d
		}
	}
	return best
}

// Selection is the outcome of resolving a service choice
type Selection struct {
	Service string  `json:"service"`
	Schema  *Schema `json:"-"`
	ModelID string  `json:"model_id"`
}

// Selector maps user-facing service choices to schemas and analysis models
type Selector struct {
	models map[string]string
}

// NewSelector creates a selector. overrides replaces the model identifier of
// a service choice; empty values are ignored.
func NewSelector(overrides map[string]string) *Selector {
	models := make(map[string]string, len(choices))
	for _, c := range choices {
		models[c.service] = c.model
	}
	for service, model := range overrides {
		if c, ok := lookupChoice(service); ok && strings.TrimSpace(model) != "" {
			models[c.service] = strings.TrimSpace(model)
		}
	}
	return &Selector{models: models}
}

// Select resolves a service choice. Unknown choices fail with an
// unknown service error before any analysis is attempted.
func (s *Selector) Select(service string) (Selection, error) {
	c, ok := lookupChoice(service)
	if !ok {
		return Selection{}, unknownService(service)
	}
	return Selection{
		Service: c.service,
		Schema:  registry[c.schema],
		ModelID: s.models[c.service],
	}, nil
}

// Services lists the accepted service choices in display order
func (s *Selector) Services() []Selection {
	out := make([]Selection, 0, len(choices))
	for _, c := range choices {
		out = append(out, Selection{Service: c.service, Schema: registry[c.schema], ModelID: s.models[c.service]})
	}
	return out
}
