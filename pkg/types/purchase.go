package types

type PaymentProvider string

const (
	PaymentProviderTap PaymentProvider = "tap"
)

// PlanType is what the trainee bought from the coach.
type PlanType string

const (
	PlanTypeNutrition   PlanType = "nutrition"
	PlanTypeWorkout     PlanType = "workout"
	PlanTypeFullPackage PlanType = "full_package"
)

func (t PlanType) Valid() bool {
	switch t {
	case PlanTypeNutrition, PlanTypeWorkout, PlanTypeFullPackage:
		return true
	}
	return false
}

// PurchaseStatus is the TraineePlan state machine. pending → completed is the
// only transition; completed is terminal.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
)
