package purchase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/pkg/types"
)

func TestPriceForPlanType(t *testing.T) {
	coach := &models.CoachProfile{
		NutritionPrice:   100,
		WorkoutPrice:     150,
		FullPackagePrice: 220,
	}

	require.Equal(t, 100.0, PriceForPlanType(coach, types.PlanTypeNutrition))
	require.Equal(t, 150.0, PriceForPlanType(coach, types.PlanTypeWorkout))
	require.Equal(t, 220.0, PriceForPlanType(coach, types.PlanTypeFullPackage))
	require.Equal(t, 0.0, PriceForPlanType(coach, types.PlanType("unknown")))
}

func TestPriceForPlanType_UnsetPriceIsZero(t *testing.T) {
	coach := &models.CoachProfile{WorkoutPrice: 150}
	require.Equal(t, 0.0, PriceForPlanType(coach, types.PlanTypeNutrition))
}
