package extraction

// Rule decides whether a present field whose value is missing still
// produces an output label.
type Rule int

const (
	// ValueOrSkip emits the label whenever the field exists, even with a
	// null value.
	ValueOrSkip Rule = iota
	// ValueOrSkipStrict emits the label only when the field exists and
	// carries a value.
	ValueOrSkipStrict
)

func (r Rule) String() string {
	if r == ValueOrSkipStrict {
		return "value_or_skip_strict"
	}
	return "value_or_skip"
}

// Source names the part of a document an entry reads from
type Source string

const (
	SourceValue   Source = "value"
	SourceContent Source = "content"
	SourceDocType Source = "doc_type"
)

// Entry maps one source field to one output label
type Entry struct {
	Key    string
	Label  string
	Rule   Rule
	Source Source
}

// Schema is a named, ordered list of entries. Schemas are built once at
// package initialisation and never mutated.
type Schema struct {
	Name    string
	entries []Entry
}

// Entries returns a copy of the schema entries in declared order
func (s *Schema) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Labels returns the output labels in declared order
func (s *Schema) Labels() []string {
	labels := make([]string, len(s.entries))
	for i, e := range s.entries {
		labels[i] = e.Label
	}
	return labels
}

func newSchema(name string, entries ...Entry) *Schema {
	return &Schema{Name: name, entries: entries}
}

func valueEntry(key, label string) Entry {
	return Entry{Key: key, Label: label, Rule: ValueOrSkip, Source: SourceValue}
}

func contentEntry(key, label string) Entry {
	return Entry{Key: key, Label: label, Rule: ValueOrSkip, Source: SourceContent}
}

func strictEntry(key, label string) Entry {
	return Entry{Key: key, Label: label, Rule: ValueOrSkipStrict, Source: SourceValue}
}

// Schema names
const (
	SchemaInvoice         = "invoice"
	SchemaReceipt         = "receipt"
	SchemaAirwayBill      = "airway_bill"
	SchemaFinanceDocument = "finance_document"
)

var (
	invoiceSchema = newSchema(SchemaInvoice,
		valueEntry("VendorName", "Vendor Name"),
		valueEntry("VendorAddress", "Vendor Address"),
		contentEntry("VendorAddressRecipient", "Vendor Address Recipient"),
		valueEntry("CustomerName", "Customer Name"),
		valueEntry("CustomerId", "Customer Id"),
		valueEntry("CustomerAddress", "Customer Address"),
		valueEntry("CustomerAddressRecipient", "Customer Address Recipient"),
		valueEntry("InvoiceId", "Invoice Id"),
		valueEntry("InvoiceDate", "Invoice Date"),
		valueEntry("InvoiceTotal", "Invoice Total"),
		valueEntry("BillingAddress", "Billing Address"),
		valueEntry("BillingAddressRecipient", "Billing Address Recipient"),
	)

	receiptSchema = newSchema(SchemaReceipt,
		Entry{Label: "Receipt Type", Rule: ValueOrSkipStrict, Source: SourceDocType},
		valueEntry("MerchantName", "Merchant Name"),
		valueEntry("TransactionDate", "Transaction Date"),
		valueEntry("Subtotal", "Subtotal"),
		valueEntry("TotalTax", "Tax"),
		valueEntry("Tip", "Tip"),
		valueEntry("Total", "Total"),
	)

	airwayBillSchema = newSchema(SchemaAirwayBill,
		strictEntry("shipping_address", "Shipping Address"),
		strictEntry("consignee_name", "Consignee Name"),
		strictEntry("shipper_name", "Shipper Name"),
		strictEntry("consignee_address", "Consignee Address"),
		strictEntry("airway_bill_number", "Airway Bill Number"),
		strictEntry("Issuer", "Issuer"),
		strictEntry("total_weight", "Total Weight"),
		strictEntry("execution_date", "Execution Date"),
		strictEntry("total_bill", "Total Bill"),
		strictEntry("currency", "Currency"),
		strictEntry("departure_airport", "Departure Airport"),
		strictEntry("destination_airport", "Destination Airport"),
		strictEntry("Shipper_account_number", "Shipper Account Number"),
	)

	financeDocumentSchema = newSchema(SchemaFinanceDocument,
		strictEntry("bill_type", "Bill Type"),
		strictEntry("po_date", "PO Date"),
		strictEntry("currency", "Currency"),
		strictEntry("company_name", "Company Name"),
		strictEntry("invoice_number", "Invoice Number"),
		strictEntry("additional_notes", "Additional Notes"),
		strictEntry("invoice_date", "Invoice Date"),
		strictEntry("po_number", "PO Number"),
		strictEntry("tax", "Tax"),
		strictEntry("subtotal", "Subtotal"),
		strictEntry("po_vendor_count", "PO Vendor Count"),
		strictEntry("vendor_name", "Vendor Name"),
		strictEntry("vendor_address", "Vendor Address"),
		strictEntry("customer_name", "Customer Name"),
		strictEntry("customer_address", "Customer Address"),
		strictEntry("customer_company", "Customer Company"),
		strictEntry("total", "Total"),
		strictEntry("receipt_date", "Receipt Date"),
		strictEntry("receipt_id", "Receipt ID"),
	)

	registry = map[string]*Schema{
		SchemaInvoice:         invoiceSchema,
		SchemaReceipt:         receiptSchema,
		SchemaAirwayBill:      airwayBillSchema,
		SchemaFinanceDocument: financeDocumentSchema,
	}

	registryOrder = []string{SchemaInvoice, SchemaReceipt, SchemaAirwayBill, SchemaFinanceDocument}
)

// SchemaFor returns the schema registered under name. The user-facing
// service choices ("Invoices", "AWB", ...) are accepted as well.
func SchemaFor(name string) (*Schema, error) {
	if s, ok := registry[name]; ok {
		return s, nil
	}
	if c, ok := lookupChoice(name); ok {
		return registry[c.schema], nil
	}
	return nil, unknownService(name)
}

// Schemas lists every registered schema in a stable order
func Schemas() []*Schema {
	out := make([]*Schema, 0, len(registryOrder))
	for _, name := range registryOrder {
		out = append(out, registry[name])
	}
	return out
}
