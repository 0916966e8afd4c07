package docintel

import (
	"encoding/json"
	"time"

	"github.com/anime-shed/doc-insight-go/internal/extraction"
)

type operationStatus string

const (
	statusNotStarted operationStatus = "notStarted"
	statusRunning    operationStatus = "running"
	statusSucceeded  operationStatus = "succeeded"
	statusFailed     operationStatus = "failed"
	statusCanceled   operationStatus = "canceled"
)

type analyzeURLRequest struct {
	URLSource string `json:"urlSource"`
}

type analyzeOperation struct {
	Status operationStatus `json:"status"`
	Error  *serviceError   `json:"error,omitempty"`
	Result *analyzeResult  `json:"analyzeResult,omitempty"`
}

type serviceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type analyzeResult struct {
	APIVersion string        `json:"apiVersion"`
	ModelID    string        `json:"modelId"`
	Documents  []wireDocument `json:"documents"`
}

type wireDocument struct {
	DocType string                     `json:"docType"`
	Fields  map[string]json.RawMessage `json:"fields"`
}

type wireField struct {
	Type               string                     `json:"type"`
	Content            string                     `json:"content"`
	Confidence         float64                    `json:"confidence"`
	ValueString        *string                    `json:"valueString"`
	ValueDate          *string                    `json:"valueDate"`
	ValueTime          *string                    `json:"valueTime"`
	ValuePhoneNumber   *string                    `json:"valuePhoneNumber"`
	ValueCountryRegion *string                    `json:"valueCountryRegion"`
	ValueSelectionMark *string                    `json:"valueSelectionMark"`
	ValueSignature     *string                    `json:"valueSignature"`
	ValueNumber        *float64                   `json:"valueNumber"`
	ValueInteger       *int64                     `json:"valueInteger"`
	ValueBoolean       *bool                      `json:"valueBoolean"`
	ValueCurrency      *extraction.Currency       `json:"valueCurrency"`
	ValueAddress       *extraction.Address        `json:"valueAddress"`
	ValueArray         []json.RawMessage          `json:"valueArray"`
	ValueObject        map[string]json.RawMessage `json:"valueObject"`
}

const dateLayout = "2006-01-02"

func (r *analyzeResult) toAnalysisResult() *extraction.AnalysisResult {
	result := &extraction.AnalysisResult{
		ModelID:   r.ModelID,
		Documents: make([]*extraction.Document, 0, len(r.Documents)),
	}
	for _, d := range r.Documents {
		result.Documents = append(result.Documents, &extraction.Document{
			DocType: d.DocType,
			Fields:  decodeFields(d.Fields),
		})
	}
	return result
}

func decodeFields(raw map[string]json.RawMessage) extraction.Fields {
	fields := make(extraction.Fields, len(raw))
	for name, msg := range raw {
		fields[name] = decodeField(msg)
	}
	return fields
}

// decodeField never fails. Entries that cannot be decoded come back with an
// empty type so the normalizer reports them as malformed.
func decodeField(msg json.RawMessage) *extraction.Field {
	var w wireField
	if err := json.Unmarshal(msg, &w); err != nil {
		return &extraction.Field{}
	}

	f := &extraction.Field{
		Type:       extraction.FieldType(w.Type),
		Content:    w.Content,
		Confidence: w.Confidence,
	}

	switch f.Type {
	case extraction.FieldTypeString:
		f.Value = deref(w.ValueString)
	case extraction.FieldTypeTime:
		f.Value = deref(w.ValueTime)
	case extraction.FieldTypePhoneNumber:
		f.Value = deref(w.ValuePhoneNumber)
	case extraction.FieldTypeCountryRegion:
		f.Value = deref(w.ValueCountryRegion)
	case extraction.FieldTypeSelectionMark:
		f.Value = deref(w.ValueSelectionMark)
	case extraction.FieldTypeSignature:
		f.Value = deref(w.ValueSignature)
	case extraction.FieldTypeDate:
		if w.ValueDate != nil {
			if t, err := time.Parse(dateLayout, *w.ValueDate); err == nil {
				f.Value = t
			} else {
				// kept as a string so the type check flags it
				f.Value = *w.ValueDate
			}
		}
	case extraction.FieldTypeNumber:
		if w.ValueNumber != nil {
			f.Value = *w.ValueNumber
		}
	case extraction.FieldTypeInteger:
		if w.ValueInteger != nil {
			f.Value = *w.ValueInteger
		}
	case extraction.FieldTypeBoolean:
		if w.ValueBoolean != nil {
			f.Value = *w.ValueBoolean
		}
	case extraction.FieldTypeCurrency:
		if w.ValueCurrency != nil {
			f.Value = *w.ValueCurrency
		}
	case extraction.FieldTypeAddress:
		if w.ValueAddress != nil {
			f.Value = *w.ValueAddress
		}
	case extraction.FieldTypeArray:
		if w.ValueArray != nil {
			items := make([]*extraction.Field, 0, len(w.ValueArray))
			for _, item := range w.ValueArray {
				items = append(items, decodeField(item))
			}
			f.Value = items
		}
	case extraction.FieldTypeObject:
		if w.ValueObject != nil {
			f.Value = map[string]*extraction.Field(decodeFields(w.ValueObject))
		}
	}
	return f
}

// deref keeps a missing string value as an untyped nil
func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
