package extraction

import (
	"testing"

	apperrors "github.com/anime-shed/doc-insight-go/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_Select(t *testing.T) {
	s := NewSelector(nil)

	tests := []struct {
		choice string
		schema string
		model  string
	}{
		{ServiceInvoices, SchemaInvoice, ModelPrebuiltInvoice},
		{ServiceReceipts, SchemaReceipt, ModelPrebuiltReceipt},
		{ServiceAWB, SchemaAirwayBill, ModelFinanceInsight},
		{ServiceOtherDocuments, SchemaFinanceDocument, ModelFinanceDocument},
		{"  receipts ", SchemaReceipt, ModelPrebuiltReceipt},
	}

	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			sel, err := s.Select(tt.choice)
			require.NoError(t, err)
			assert.Equal(t, tt.schema, sel.Schema.Name)
			assert.Equal(t, tt.model, sel.ModelID)
		})
	}
}

func TestSelector_UnknownChoice(t *testing.T) {
	s := NewSelector(nil)

	_, err := s.Select("Unknown")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnknownService))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Empty(t, appErr.Details)

	_, err = s.Select("Invoice")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, `did you mean "Invoices"?`, appErr.Details)

	_, err = s.Select("")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnknownService))
}

func TestSelector_ModelOverrides(t *testing.T) {
	s := NewSelector(map[string]string{
		ServiceAWB:            "awb-v2",
		ServiceOtherDocuments: "   ",
		"Nonsense":            "ignored",
	})

	sel, err := s.Select(ServiceAWB)
	require.NoError(t, err)
	assert.Equal(t, "awb-v2", sel.ModelID)

	sel, err = s.Select(ServiceOtherDocuments)
	require.NoError(t, err)
	assert.Equal(t, ModelFinanceDocument, sel.ModelID)

	services := s.Services()
	require.Len(t, services, 4)
	assert.Equal(t, ServiceInvoices, services[0].Service)
	assert.Equal(t, "awb-v2", services[2].ModelID)
}

func TestSchemaFor(t *testing.T) {
	s, err := SchemaFor(SchemaInvoice)
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 12)

	s, err = SchemaFor(ServiceReceipts)
	require.NoError(t, err)
	assert.Equal(t, SchemaReceipt, s.Name)
	assert.Len(t, s.Entries(), 7)

	s, err = SchemaFor(ServiceAWB)
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 13)

	s, err = SchemaFor(ServiceOtherDocuments)
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 19)

	_, err = SchemaFor("Passports")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnknownService))
}

func TestSchema_EntriesIsACopy(t *testing.T) {
	entries := invoiceSchema.Entries()
	entries[0].Label = "changed"
	assert.Equal(t, "Vendor Name", invoiceSchema.Labels()[0])
}

func TestSchemas_RulesPerEntry(t *testing.T) {
	for _, e := range airwayBillSchema.Entries() {
		assert.Equal(t, ValueOrSkipStrict, e.Rule, e.Label)
	}
	for _, e := range financeDocumentSchema.Entries() {
		assert.Equal(t, ValueOrSkipStrict, e.Rule, e.Label)
	}
	for _, e := range invoiceSchema.Entries() {
		assert.Equal(t, ValueOrSkip, e.Rule, e.Label)
	}
	assert.Equal(t, SourceContent, invoiceSchema.Entries()[2].Source)
	assert.Equal(t, SourceDocType, receiptSchema.Entries()[0].Source)
}
