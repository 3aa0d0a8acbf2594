package verticals

import (
	sm "github.com/nymkash-gerel/temuulel-app-sub004/pkg/statemachine"
	"github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"
)

// Real-estate sales pipeline.
const (
	DealLead      sm.StringState = "lead"
	DealViewing   sm.StringState = "viewing"
	DealOffer     sm.StringState = "offer"
	DealContract  sm.StringState = "contract"
	DealClosed    sm.StringState = "closed"
	DealLost      sm.StringState = "lost"
	DealWithdrawn sm.StringState = "withdrawn"
)

func dealDefinition() workflow.KindDefinition {
	return workflow.KindDefinition{
		Kind: workflow.KindDeal,
		Machine: sm.MustNew(DealLead,
			sm.WithStates(DealLead, DealViewing, DealOffer, DealContract, DealClosed, DealLost, DealWithdrawn),
			sm.WithTerminal(DealClosed, DealLost, DealWithdrawn),
			sm.WithTransition(DealLead, DealViewing, DealLost),
			sm.WithTransition(DealViewing, DealOffer, DealLost),
			sm.WithTransition(DealOffer, DealContract, DealLost),
			sm.WithTransition(DealContract, DealClosed, DealWithdrawn),
		),
		Rules: []workflow.Rule{
			{From: DealContract, To: DealClosed, Apply: closeDeal},
			{To: DealLost, Apply: workflow.Chain(workflow.Stamp("lost_date"), workflow.CopyOptional("lost_reason"))},
			{From: DealContract, To: DealWithdrawn, Apply: workflow.Stamp("withdrawn_date")},
		},
		Editable: map[string][]sm.State{
			"asking_price":     nil,
			"commission_rate":  nil,
			"agent_share_rate": nil,
			"agent_id":         nil,
			"notes":            nil,
			"viewing_date":     {DealLead, DealViewing},
		},
	}
}

// closeDeal splits the commission on the final price:
//
//	commission = final_price * commission_rate / 100
//	agent      = commission * agent_share_rate / 100
//	company    = commission - agent
func closeDeal(in workflow.RuleInput) (workflow.Mutation, error) {
	price, err := in.RequirePositive("final_price")
	if err != nil {
		return workflow.Mutation{}, err
	}
	rate, err := in.Rate("commission_rate")
	if err != nil {
		return workflow.Mutation{}, err
	}
	agentRate, err := in.Rate("agent_share_rate")
	if err != nil {
		return workflow.Mutation{}, err
	}

	commission := workflow.RoundMoney(price * rate / 100)
	agent := workflow.RoundMoney(commission * agentRate / 100)

	var m workflow.Mutation
	m.Set("final_price", price)
	m.Set("commission_rate", rate)
	m.Set("agent_share_rate", agentRate)
	m.Set("commission_amount", commission)
	m.Set("agent_share_amount", agent)
	m.Set("company_share_amount", workflow.RoundMoney(commission-agent))
	m.Set("closed_date", in.Now)
	return m, nil
}
