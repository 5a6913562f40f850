package notification

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suniorfit/backend/pkg/types"
)

func TestFillFallbackCopy_TraineePurchase(t *testing.T) {
	p := &Payload{Data: map[string]any{"trainee_name": "Sara", "plan_type": "workout"}}
	fillFallbackCopy(types.NotificationTypeTraineePurchase, p)

	require.Equal(t, "شراء جديد من Sara", p.TitleAr)
	require.Contains(t, p.MessageAr, "Sara")
	require.Contains(t, p.MessageAr, "workout")
	// plain fields default to the Arabic copy
	require.Equal(t, p.TitleAr, p.Title)
	require.Equal(t, p.MessageAr, p.Message)
}

func TestFillFallbackCopy_TraineeNameFallsBackToID(t *testing.T) {
	p := &Payload{Data: map[string]any{"trainee_id": int64(7), "plan_type": "nutrition"}}
	fillFallbackCopy(types.NotificationTypeTraineePurchase, p)
	require.Contains(t, p.TitleAr, "7")
}

func TestFillFallbackCopy_PlanCreated(t *testing.T) {
	p := &Payload{Data: map[string]any{"plan_title": "Strength Block A"}}
	fillFallbackCopy(types.NotificationTypePlanCreated, p)
	require.Contains(t, p.TitleAr, "Strength Block A")

	empty := &Payload{}
	fillFallbackCopy(types.NotificationTypePlanCreated, empty)
	require.Equal(t, "تم إنشاء خطة جديدة", empty.TitleAr)
}

func TestFillFallbackCopy_KeepsExplicitOverrides(t *testing.T) {
	p := &Payload{Title: "Custom", Message: "Custom body"}
	fillFallbackCopy(types.NotificationTypeTraineePurchase, p)
	require.Equal(t, "Custom", p.Title)
	require.Equal(t, "Custom body", p.Message)
	// Arabic fallback still filled
	require.NotEmpty(t, p.TitleAr)
}
