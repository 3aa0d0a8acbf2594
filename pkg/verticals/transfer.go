package verticals

import (
	"fmt"
	"maps"

	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Stock transfers between store locations.
const (
	TransferPending   sm.StringState = "pending"
	TransferInTransit sm.StringState = "in_transit"
	TransferReceived  sm.StringState = "received"
	TransferCancelled sm.StringState = "cancelled"
)

func stockTransferDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindStockTransfer,
		Machine: sm.MustNew(TransferPending,
			sm.WithStates(TransferPending, TransferInTransit, TransferReceived, TransferCancelled),
			sm.WithTerminal(TransferReceived, TransferCancelled),
			sm.WithTransition(TransferPending, TransferInTransit),
			sm.WithTransition(TransferInTransit, TransferReceived),
			sm.FromAnyActive(TransferCancelled),
		),
		Rules: []workflow.Rule{
			{From: TransferPending, To: TransferInTransit, Apply: workflow.Chain(workflow.Stamp("shipped_at"), workflow.CopyOptional("carrier", "tracking_number"))},
			{From: TransferInTransit, To: TransferReceived, Apply: receiveTransfer},
			{To: TransferCancelled, Apply: cancellation},
		},
		Editable: map[string][]sm.State{
			"items":            {TransferPending},
			"from_location_id": {TransferPending},
			"to_location_id":   {TransferPending},
			"tracking_number":  {TransferInTransit},
			"notes":            nil,
		},
	}
}

// receiveTransfer settles every line item and books one inventory movement
// per line at the destination. received_quantities in the payload overrides
// the shipped quantity per line_item_id.
func receiveTransfer(in workflow.RuleInput) (workflow.Mutation, error) {
	location, ok, err := in.String("to_location_id")
	if err != nil {
		return workflow.Mutation{}, err
	}
	if !ok {
		return workflow.Mutation{}, &workflow.MissingFieldError{Field: "to_location_id"}
	}

	items, err := lineItems(in.Entity.Fields["items"])
	if err != nil {
		return workflow.Mutation{}, err
	}
	if len(items) == 0 {
		return workflow.Mutation{}, &workflow.MissingFieldError{Field: "items"}
	}

	overrides, err := receivedOverrides(in.Payload["received_quantities"])
	if err != nil {
		return workflow.Mutation{}, err
	}

	var m workflow.Mutation
	settled := make([]any, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		lineID, _ := item["line_item_id"].(string)
		if lineID == "" {
			return workflow.Mutation{}, &workflow.MissingFieldError{Field: fmt.Sprintf("items[%d].line_item_id", i)}
		}
		if seen[lineID] {
			return workflow.Mutation{}, &workflow.InvalidFieldError{Field: "items", Reason: fmt.Sprintf("duplicate line item %q", lineID)}
		}
		seen[lineID] = true

		qty, ok := overrides[lineID]
		if !ok {
			raw, present := item["quantity"]
			if !present {
				return workflow.Mutation{}, &workflow.MissingFieldError{Field: fmt.Sprintf("items[%d].quantity", i)}
			}
			if qty, err = workflow.ParseNumber(fmt.Sprintf("items[%d].quantity", i), raw); err != nil {
				return workflow.Mutation{}, err
			}
		}
		if qty < 0 {
			return workflow.Mutation{}, &workflow.InvalidFieldError{
				Field:  fmt.Sprintf("items[%d].received_quantity", i),
				Reason: "cannot be negative",
			}
		}

		line := maps.Clone(item)
		line["received_quantity"] = qty
		settled = append(settled, line)

		productID, _ := item["product_id"].(string)
		m.Movements = append(m.Movements, workflow.InventoryMovement{
			ID:         workflow.MovementID(in.Entity.TenantID, in.Entity.ID, lineID),
			TenantID:   in.Entity.TenantID,
			TransferID: in.Entity.ID,
			LineItemID: lineID,
			ProductID:  productID,
			LocationID: location,
			Quantity:   qty,
			CreatedAt:  in.Now,
		})
	}

	for lineID := range overrides {
		if !seen[lineID] {
			return workflow.Mutation{}, &workflow.InvalidFieldError{
				Field:  "received_quantities",
				Reason: fmt.Sprintf("unknown line item %q", lineID),
			}
		}
	}

	m.Set("items", settled)
	m.Set("received_at", in.Now)
	return m, nil
}

// lineItems accepts both decoded JSON ([]any of objects) and Go-built
// ([]map[string]any) item lists.
func lineItems(v any) ([]map[string]any, error) {
	switch items := v.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return items, nil
	case []any:
		out := make([]map[string]any, 0, len(items))
		for i, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				return nil, &workflow.InvalidFieldError{Field: fmt.Sprintf("items[%d]", i), Reason: fmt.Sprintf("expected an object, got %T", raw)}
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return nil, &workflow.InvalidFieldError{Field: "items", Reason: fmt.Sprintf("expected a list, got %T", v)}
	}
}

func receivedOverrides(v any) (map[string]float64, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, &workflow.InvalidFieldError{Field: "received_quantities", Reason: fmt.Sprintf("expected an object, got %T", v)}
	}
	out := make(map[string]float64, len(raw))
	for lineID, q := range raw {
		n, err := workflow.ParseNumber("received_quantities."+lineID, q)
		if err != nil {
			return nil, err
		}
		out[lineID] = n
	}
	return out, nil
}
