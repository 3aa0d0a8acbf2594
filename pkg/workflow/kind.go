package workflow

import "slices"

// Kind identifies a status-bearing business object type.
type Kind string

const (
	KindDeal            Kind = "deal"
	KindConsultation    Kind = "consultation"
	KindInspection      Kind = "inspection"
	KindProductionBatch Kind = "production_batch"
	KindReturnRequest   Kind = "return_request"
	KindStockTransfer   Kind = "stock_transfer"
	KindTreatmentPlan   Kind = "treatment_plan"
	KindRepairOrder     Kind = "repair_order"
	KindLaundryOrder    Kind = "laundry_order"
	KindTable           Kind = "table"
)

var allKinds = []Kind{
	KindDeal,
	KindConsultation,
	KindInspection,
	KindProductionBatch,
	KindReturnRequest,
	KindStockTransfer,
	KindTreatmentPlan,
	KindRepairOrder,
	KindLaundryOrder,
	KindTable,
}

// Kinds returns every known entity kind.
func Kinds() []Kind {
	return slices.Clone(allKinds)
}

func (k Kind) Valid() bool {
	return slices.Contains(allKinds, k)
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a raw identifier into a Kind.
// Unknown identifiers fail with *UnknownEntityKindError.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", &UnknownEntityKindError{Kind: s}
	}
	return k, nil
}
