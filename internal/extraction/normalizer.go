package extraction

import (
	"fmt"

	apperrors "github.com/anime-shed/doc-insight-go/internal/errors"
	"github.com/anime-shed/doc-insight-go/internal/logger"

	"github.com/sirupsen/logrus"
)

// Normalize applies schema to doc and returns the resulting record.
//
// Labels whose source field is missing are omitted. A field that cannot be
// interpreted is recorded as an issue on the record and skipped; the rest of
// the document is still processed.
func Normalize(doc *Document, schema *Schema) *Record {
	record := NewRecord()
	if doc == nil {
		record.addIssue(apperrors.NewMalformedDocumentError(fmt.Errorf("document is nil")))
		return record
	}

	for _, entry := range schema.entries {
		value, ok, err := resolve(doc, entry)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"schema": schema.Name,
				"field":  entry.Key,
				"label":  entry.Label,
			}).Warn("Skipping malformed field")
			record.addIssue(err)
			continue
		}
		if !ok {
			continue
		}
		record.Set(entry.Label, value)
	}

	return record
}

// resolve reports the value an entry contributes. ok is false when the
// label must be left out of the record.
func resolve(doc *Document, entry Entry) (any, bool, error) {
	if entry.Source == SourceDocType {
		if doc.DocType == "" {
			return nil, false, nil
		}
		return doc.DocType, true, nil
	}

	field, found := Lookup(doc.Fields, entry.Key)
	if !found {
		return nil, false, nil
	}

	value, ok, err := ValueOf(entry.Key, field, entry.Source)
	if err != nil {
		return nil, false, err
	}
	if !ok && entry.Rule == ValueOrSkipStrict {
		return nil, false, nil
	}
	return value, true, nil
}

// Extract normalizes every document of result under schema. The returned
// set always has one record per document; an empty result yields an empty,
// non-nil set.
func Extract(result *AnalysisResult, schema *Schema) ResultSet {
	if result == nil {
		return ResultSet{}
	}

	set := make(ResultSet, 0, len(result.Documents))
	for _, doc := range result.Documents {
		set = append(set, Normalize(doc, schema))
	}
	return set
}
