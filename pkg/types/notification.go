package types

type NotificationType string

const (
	// NotificationTypeTraineePurchase tells a coach a trainee bought a plan.
	NotificationTypeTraineePurchase NotificationType = "trainee_purchase"
	// NotificationTypePlanCreated tells a trainee their plan is ready.
	NotificationTypePlanCreated NotificationType = "plan_created"
)
