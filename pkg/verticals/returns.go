package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Retail return requests.
const (
	ReturnPending   sm.StringState = "pending"
	ReturnApproved  sm.StringState = "approved"
	ReturnCompleted sm.StringState = "completed"
	ReturnRejected  sm.StringState = "rejected"
)

// RefundMethods are the accepted values of refund_method.
var RefundMethods = []string{"cash", "card", "bank_transfer", "store_credit"}

// OrderRefunded is the payment status a completed return leaves on its order.
const OrderRefunded = "refunded"

func returnRequestDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindReturnRequest,
		Machine: sm.MustNew(ReturnPending,
			sm.WithStates(ReturnPending, ReturnApproved, ReturnCompleted, ReturnRejected),
			sm.WithTerminal(ReturnCompleted, ReturnRejected),
			sm.WithTransition(ReturnPending, ReturnApproved, ReturnRejected),
			sm.WithTransition(ReturnApproved, ReturnCompleted, ReturnRejected),
		),
		Rules: []workflow.Rule{
			{From: ReturnPending, To: ReturnApproved, Apply: approveReturn},
			{From: ReturnApproved, To: ReturnCompleted, Apply: completeReturn},
			{To: ReturnRejected, Apply: workflow.Chain(workflow.Stamp("rejected_at"), workflow.CopyOptional("rejection_reason"))},
		},
		Editable: map[string][]sm.State{
			"reason":        {ReturnPending},
			"refund_amount": {ReturnPending, ReturnApproved},
			"refund_method": {ReturnPending, ReturnApproved},
			"notes":         nil,
		},
	}
}

// approveReturn accepts refund terms early. Both are optional here and are
// enforced on completion.
func approveReturn(in workflow.RuleInput) (workflow.Mutation, error) {
	m, err := optionalPositive("refund_amount")(in)
	if err != nil {
		return workflow.Mutation{}, err
	}
	if _, ok := in.Payload["refund_method"]; ok {
		method, _, err := oneOf(in, "refund_method", RefundMethods)
		if err != nil {
			return workflow.Mutation{}, err
		}
		if method != "" {
			m.Set("refund_method", method)
		}
	}
	m.Set("approved_at", in.Now)
	return m, nil
}

// completeReturn books the refund and marks the linked order refunded in the
// same commit.
func completeReturn(in workflow.RuleInput) (workflow.Mutation, error) {
	amount, err := in.RequirePositive("refund_amount")
	if err != nil {
		return workflow.Mutation{}, err
	}
	method, ok, err := oneOf(in, "refund_method", RefundMethods)
	if err != nil {
		return workflow.Mutation{}, err
	}
	if !ok {
		return workflow.Mutation{}, &workflow.MissingFieldError{Field: "refund_method"}
	}
	// The order link is part of the return itself and cannot be redirected
	// by the payload.
	orderID, _ := in.Entity.Fields["order_id"].(string)
	if orderID == "" {
		return workflow.Mutation{}, &workflow.MissingFieldError{Field: "order_id"}
	}

	var m workflow.Mutation
	m.Set("refund_amount", workflow.RoundMoney(amount))
	m.Set("refund_method", method)
	m.Set("completed_at", in.Now)
	m.Linked = append(m.Linked, workflow.LinkedUpdate{
		Target: workflow.LinkOrderPaymentStatus,
		ID:     orderID,
		Value:  OrderRefunded,
	})
	return m, nil
}
