package projection

import (
	"fmt"
	"strings"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
)

// PO receipt statuses derived by joining PO MASTER against INDENT and
// STORE IN. A PO number missing from INDENT means the order was revised
// after approval and superseded.
const (
	POStatusReceived    = "Received"
	POStatusNotReceived = "Not Received"
	POStatusRevised     = "Revised"
)

// CollectKeys normalizes the rows of an auxiliary sheet and gathers the
// non-empty values of one canonical field into a membership set.
func CollectKeys(rows []model.Row, schema Schema, field string) map[string]struct{} {
	keys := make(map[string]struct{}, len(rows))
	for _, raw := range rows {
		row := schema.Normalize(raw)
		if v := strings.TrimSpace(row.Str(field)); v != "" {
			keys[v] = struct{}{}
		}
	}
	return keys
}

// POReceiptStatus builds the decision table for the PO tracking view:
//
//	po in INDENT, in STORE IN      -> Received
//	po in INDENT, not in STORE IN  -> Not Received
//	po not in INDENT               -> Revised
//
// A row without a PO number cannot be classified and errors, which the
// projector downgrades to the Unknown sentinel.
func POReceiptStatus(indentPOs, receivedPOs map[string]struct{}) StatusFunc {
	return func(row model.Row) (string, error) {
		po := strings.TrimSpace(row.Str("poNumber"))
		if po == "" {
			return "", fmt.Errorf("row %d has no PO number", row.RowIndex())
		}
		if _, inIndent := indentPOs[po]; !inIndent {
			return POStatusRevised, nil
		}
		if _, received := receivedPOs[po]; received {
			return POStatusReceived, nil
		}
		return POStatusNotReceived, nil
	}
}
