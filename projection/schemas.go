package projection

import (
	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

// Workflow stages per sheet. Stage numbers index the planned<N>/actual<N>
// column pairs of that sheet.
const (
	// INDENT
	StageIndentApproval = 1
	StageRateApproval   = 2
	StagePOCreation     = 3

	// STORE IN / ISSUE / BILL ENTRY each start their own stage sequence.
	StageMaterialReceipt = 1
	StageIssueApproval   = 1
	StageBillReconcile   = 1
)

var firmAliases = []string{"firmNameMatch", "Firm Name", "firmName", "Firm"}

var rowKeyField = Field{
	Name:    model.RowKeyField,
	Aliases: []string{"rowIndex", "Row Index", "row_index"},
	Kind:    KindNumber,
}

var timestampField = Field{
	Name:    "timestamp",
	Aliases: []string{"Timestamp", "Date"},
}

// IndentSchema covers the INDENT sheet: one row per indent line, carrying
// the three-vendor rate comparison columns and stages 1-3 (indent approval,
// rate approval, PO creation).
func IndentSchema() Schema {
	fields := []Field{
		rowKeyField,
		timestampField,
		{Name: "indentNumber", Aliases: []string{"Indent Number", "indentNumber", "indentNo"}},
		{Name: "firm", Aliases: firmAliases},
		{Name: "product", Aliases: []string{"Product Name", "productName", "Item Name", "itemName"}},
		{Name: "groupHead", Aliases: []string{"Group Head", "groupHead"}},
		{Name: "qty", Aliases: []string{"Qty", "Quantity", "quantity"}, Kind: KindNumber},
		{Name: "uom", Aliases: []string{"UOM", "uom", "Unit"}},
		{Name: "department", Aliases: []string{"Department", "department", "Dept"}},
		{Name: "requestedBy", Aliases: []string{"Requested By", "requestedBy", "Indenter Name", "indenterName"}},
		{Name: "vendor1", Aliases: []string{"Vendor Name 1", "vendorName1", "Vendor 1"}},
		{Name: "rate1", Aliases: []string{"Rate 1", "rate1"}, Kind: KindNumber},
		{Name: "vendor2", Aliases: []string{"Vendor Name 2", "vendorName2", "Vendor 2"}},
		{Name: "rate2", Aliases: []string{"Rate 2", "rate2"}, Kind: KindNumber},
		{Name: "vendor3", Aliases: []string{"Vendor Name 3", "vendorName3", "Vendor 3"}},
		{Name: "rate3", Aliases: []string{"Rate 3", "rate3"}, Kind: KindNumber},
		{Name: "approvedVendor", Aliases: []string{"Approved Vendor", "approvedVendor", "Approved Party Name"}},
		{Name: "approvedRate", Aliases: []string{"Approved Rate", "approvedRate"}, Kind: KindNumber},
		{Name: "poNumber", Aliases: []string{"PO Number", "poNumber", "PO No", "poNo"}},
		{Name: "status", Aliases: []string{"Status", "status"}},
		{Name: "remark", Aliases: []string{"Remark", "remark", "Remarks"}},
	}
	fields = append(fields, StageFields(StageIndentApproval, StageRateApproval, StagePOCreation)...)
	return Schema{Sheet: model.SheetIndent, ScopeField: "firm", Fields: fields}
}

// POSchema covers PO MASTER: one row per PO line. The tracking view dedupes
// by PO number and derives a receipt status against INDENT and STORE IN.
func POSchema() Schema {
	return Schema{
		Sheet:      model.SheetPOMaster,
		ScopeField: "firm",
		Fields: []Field{
			rowKeyField,
			timestampField,
			{Name: "poNumber", Aliases: []string{"PO Number", "poNumber", "PO No", "poNo"}},
			{Name: "indentNumber", Aliases: []string{"Indent Number", "indentNumber", "indentNo"}},
			{Name: "firm", Aliases: firmAliases},
			{Name: "vendor", Aliases: []string{"Vendor Name", "vendorName", "Party Name", "partyName"}},
			{Name: "product", Aliases: []string{"Product Name", "productName", "Item Name", "itemName"}},
			{Name: "qty", Aliases: []string{"Qty", "Quantity", "quantity"}, Kind: KindNumber},
			{Name: "rate", Aliases: []string{"Rate", "rate"}, Kind: KindNumber},
			{Name: "totalAmount", Aliases: []string{"Total Amount", "totalAmount", "PO Amount", "poAmount"}, Kind: KindNumber},
			{Name: "poDate", Aliases: []string{"PO Date", "poDate"}},
			{Name: "deliveryDate", Aliases: []string{"Delivery Date", "deliveryDate", "Expected Delivery"}},
			{Name: "poCopy", Aliases: []string{"PO Copy", "poCopy", "PO PDF", "poPdf"}},
			{Name: "remark", Aliases: []string{"Remark", "remark", "Remarks"}},
		},
	}
}

// StoreInSchema covers STORE IN: goods received against a PO. Stage 1 is
// the material receipt confirmation.
func StoreInSchema() Schema {
	fields := []Field{
		rowKeyField,
		{Name: "timestamp", Aliases: []string{"Timestamp", "Receipt Date", "receiptDate"}},
		{Name: "liftNumber", Aliases: []string{"Lift Number", "liftNumber", "Lift No", "liftNo"}},
		{Name: "poNumber", Aliases: []string{"PO Number", "poNumber", "PO No", "poNo"}},
		{Name: "indentNumber", Aliases: []string{"Indent Number", "indentNumber", "indentNo"}},
		{Name: "firm", Aliases: firmAliases},
		{Name: "product", Aliases: []string{"Product Name", "productName", "Item Name", "itemName"}},
		{Name: "receivedQty", Aliases: []string{"Received Qty", "receivedQty", "Qty Received"}, Kind: KindNumber},
		{Name: "rate", Aliases: []string{"Rate", "rate"}, Kind: KindNumber},
		{Name: "billNumber", Aliases: []string{"Bill Number", "billNumber", "Bill No", "billNo"}},
		{Name: "billAmount", Aliases: []string{"Bill Amount", "billAmount"}, Kind: KindNumber},
		{Name: "billPhoto", Aliases: []string{"Bill Photo", "billPhoto", "Photo", "photoUrl"}},
		{Name: "status", Aliases: []string{"Status", "status"}},
		{Name: "remark", Aliases: []string{"Remark", "remark", "Remarks"}},
	}
	fields = append(fields, StageFields(StageMaterialReceipt)...)
	return Schema{Sheet: model.SheetStoreIn, ScopeField: "firm", Fields: fields}
}

// IssueSchema covers ISSUE: stock issued out of the store. Stage 1 is the
// issue approval.
func IssueSchema() Schema {
	fields := []Field{
		rowKeyField,
		timestampField,
		{Name: "issueNumber", Aliases: []string{"Issue Number", "issueNumber", "Issue No", "issueNo"}},
		{Name: "firm", Aliases: firmAliases},
		{Name: "product", Aliases: []string{"Product Name", "productName", "Item Name", "itemName"}},
		{Name: "groupHead", Aliases: []string{"Group Head", "groupHead"}},
		{Name: "requestedQty", Aliases: []string{"Requested Qty", "requestedQty", "Qty"}, Kind: KindNumber},
		{Name: "issuedQty", Aliases: []string{"Issued Qty", "issuedQty"}, Kind: KindNumber},
		{Name: "uom", Aliases: []string{"UOM", "uom", "Unit"}},
		{Name: "department", Aliases: []string{"Department", "department", "Dept"}},
		{Name: "issuedTo", Aliases: []string{"Issued To", "issuedTo", "Person Name", "personName"}},
		{Name: "status", Aliases: []string{"Status", "status"}},
		{Name: "remark", Aliases: []string{"Remark", "remark", "Remarks"}},
	}
	fields = append(fields, StageFields(StageIssueApproval)...)
	return Schema{Sheet: model.SheetIssue, ScopeField: "firm", Fields: fields}
}

// BillSchema covers BILL ENTRY: vendor bills awaiting reconciliation
// against received goods. Stage 1 is the reconciliation.
func BillSchema() Schema {
	fields := []Field{
		rowKeyField,
		{Name: "timestamp", Aliases: []string{"Timestamp", "Bill Date", "billDate"}},
		{Name: "billNumber", Aliases: []string{"Bill Number", "billNumber", "Bill No", "billNo"}},
		{Name: "poNumber", Aliases: []string{"PO Number", "poNumber", "PO No", "poNo"}},
		{Name: "firm", Aliases: firmAliases},
		{Name: "vendor", Aliases: []string{"Vendor Name", "vendorName", "Party Name", "partyName"}},
		{Name: "billAmount", Aliases: []string{"Bill Amount", "billAmount"}, Kind: KindNumber},
		{Name: "status", Aliases: []string{"Status", "status"}},
		{Name: "remark", Aliases: []string{"Remark", "remark", "Remarks"}},
	}
	fields = append(fields, StageFields(StageBillReconcile)...)
	return Schema{Sheet: model.SheetBillEntry, ScopeField: "firm", Fields: fields}
}
