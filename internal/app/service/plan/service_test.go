package plan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/suniorfit/backend/internal/app/service/notification"
	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/pkg/types"
)

// fakeStore keeps everything in maps. InTransaction snapshots the state and
// restores it when the callback errors, mimicking a rollback.
type fakeStore struct {
	purchases   map[int64]*models.TraineePlan
	plans       map[int64]*models.Plan
	workouts    map[int64][]int64
	meals       map[int64][]int64
	assignments map[string]*models.PlanAssignment
	userIDs     map[int64]int64
	nextPlanID  int64

	attachWorkoutsErr error
	completeFails     bool
}

func newPlanFake() *fakeStore {
	return &fakeStore{
		purchases:   map[int64]*models.TraineePlan{},
		plans:       map[int64]*models.Plan{},
		workouts:    map[int64][]int64{},
		meals:       map[int64][]int64{},
		assignments: map[string]*models.PlanAssignment{},
		userIDs:     map[int64]int64{},
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	c := newPlanFake()
	for k, v := range s.purchases {
		cp := *v
		c.purchases[k] = &cp
	}
	for k, v := range s.plans {
		cp := *v
		c.plans[k] = &cp
	}
	for k, v := range s.workouts {
		c.workouts[k] = append([]int64(nil), v...)
	}
	for k, v := range s.meals {
		c.meals[k] = append([]int64(nil), v...)
	}
	for k, v := range s.assignments {
		cp := *v
		c.assignments[k] = &cp
	}
	for k, v := range s.userIDs {
		c.userIDs[k] = v
	}
	c.nextPlanID = s.nextPlanID
	return c
}

func (s *fakeStore) restore(from *fakeStore) {
	s.purchases = from.purchases
	s.plans = from.plans
	s.workouts = from.workouts
	s.meals = from.meals
	s.assignments = from.assignments
	s.nextPlanID = from.nextPlanID
}

func (s *fakeStore) InTransaction(_ context.Context, fn func(tx Store) error) error {
	before := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

func (s *fakeStore) FindPurchaseForUpdate(_ context.Context, id int64) (*models.TraineePlan, error) {
	return s.purchases[id], nil
}

func (s *fakeStore) CompletePurchase(_ context.Context, purchaseID, planID int64) (bool, error) {
	if s.completeFails {
		return false, nil
	}
	tp, ok := s.purchases[purchaseID]
	if !ok || tp.Status != types.PurchaseStatusPending {
		return false, nil
	}
	tp.Status = types.PurchaseStatusCompleted
	tp.PlanID = &planID
	return true, nil
}

func (s *fakeStore) CreatePlan(_ context.Context, p *models.Plan) error {
	s.nextPlanID++
	p.ID = s.nextPlanID
	cp := *p
	s.plans[p.ID] = &cp
	return nil
}

func (s *fakeStore) FindPlan(_ context.Context, id int64) (*models.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) ListPlansByCoach(_ context.Context, coachID int64) ([]*models.Plan, error) {
	var out []*models.Plan
	for _, p := range s.plans {
		if p.CoachProfileID == coachID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdatePlan(_ context.Context, p *models.Plan) error {
	stored, ok := s.plans[p.ID]
	if !ok {
		return errors.New("plan missing")
	}
	stored.Type = p.Type
	stored.Title = p.Title
	stored.Description = p.Description
	return nil
}

func (s *fakeStore) DeletePlan(_ context.Context, id int64) error {
	delete(s.plans, id)
	delete(s.workouts, id)
	delete(s.meals, id)
	return nil
}

func (s *fakeStore) AttachWorkouts(_ context.Context, planID int64, workoutIDs []int64) error {
	if s.attachWorkoutsErr != nil {
		return s.attachWorkoutsErr
	}
	s.workouts[planID] = append(s.workouts[planID], workoutIDs...)
	return nil
}

func (s *fakeStore) AttachMeals(_ context.Context, planID int64, mealIDs []int64) error {
	s.meals[planID] = append(s.meals[planID], mealIDs...)
	return nil
}

func (s *fakeStore) ReplaceWorkouts(_ context.Context, planID int64, workoutIDs []int64) error {
	s.workouts[planID] = append([]int64(nil), workoutIDs...)
	return nil
}

func (s *fakeStore) ReplaceMeals(_ context.Context, planID int64, mealIDs []int64) error {
	s.meals[planID] = append([]int64(nil), mealIDs...)
	return nil
}

func (s *fakeStore) CreateAssignmentIfAbsent(_ context.Context, a *models.PlanAssignment) error {
	key := fmt.Sprintf("%d|%s", a.TraineeID, a.ChargeID)
	if _, exists := s.assignments[key]; exists {
		return nil
	}
	cp := *a
	s.assignments[key] = &cp
	return nil
}

func (s *fakeStore) TraineeUserID(_ context.Context, traineeID int64) (int64, error) {
	id, ok := s.userIDs[traineeID]
	if !ok {
		return 0, errors.New("trainee missing")
	}
	return id, nil
}

type stubNotifier struct {
	recipients []int64
	types      []types.NotificationType
}

func (n *stubNotifier) Dispatch(_ context.Context, recipientID int64, typ types.NotificationType, _ notification.Payload) (*models.Notification, error) {
	n.recipients = append(n.recipients, recipientID)
	n.types = append(n.types, typ)
	return &models.Notification{ID: "n-1"}, nil
}

func pendingPurchase(id, traineeID, coachID int64) *models.TraineePlan {
	return &models.TraineePlan{
		ID:             id,
		TraineeID:      traineeID,
		CoachProfileID: coachID,
		PlanType:       types.PlanTypeWorkout,
		ChargeID:       fmt.Sprintf("chg_%d", id),
		PurchasedAt:    time.Now(),
		Status:         types.PurchaseStatusPending,
	}
}

func newPlanService(store Store, notif Notifier) *Service {
	return NewService(store, notif, zap.NewNop().Sugar())
}

func TestCreateFromPurchase_Success(t *testing.T) {
	store := newPlanFake()
	store.purchases[1] = pendingPurchase(1, 7, 3)
	store.userIDs[7] = 70
	notif := &stubNotifier{}

	p, err := newPlanService(store, notif).CreateFromPurchase(context.Background(), 3, &CreatePlanRequest{
		TraineePlanID: 1,
		Type:          types.PlanTypeWorkout,
		Title:         "Strength Block A",
		WorkoutIDs:    []int64{11, 12},
		MealIDs:       []int64{21},
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, "Strength Block A", p.Title)

	// purchase completed and linked
	require.Equal(t, types.PurchaseStatusCompleted, store.purchases[1].Status)
	require.NotNil(t, store.purchases[1].PlanID)
	require.Equal(t, p.ID, *store.purchases[1].PlanID)

	// memberships and trainee assignment written
	require.Equal(t, []int64{11, 12}, store.workouts[p.ID])
	require.Equal(t, []int64{21}, store.meals[p.ID])
	require.Len(t, store.assignments, 1)

	// trainee notified on their user id
	require.Equal(t, []int64{70}, notif.recipients)
	require.Equal(t, []types.NotificationType{types.NotificationTypePlanCreated}, notif.types)
}

func TestCreateFromPurchase_PurchaseNotFound(t *testing.T) {
	store := newPlanFake()
	_, err := newPlanService(store, &stubNotifier{}).CreateFromPurchase(context.Background(), 3, &CreatePlanRequest{TraineePlanID: 99, Type: types.PlanTypeWorkout, Title: "x"})
	require.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestCreateFromPurchase_WrongCoach(t *testing.T) {
	store := newPlanFake()
	store.purchases[1] = pendingPurchase(1, 7, 3)

	_, err := newPlanService(store, &stubNotifier{}).CreateFromPurchase(context.Background(), 4, &CreatePlanRequest{TraineePlanID: 1, Type: types.PlanTypeWorkout, Title: "x"})
	require.ErrorIs(t, err, ErrNotPurchaseOwner)
	require.Empty(t, store.plans)
}

func TestCreateFromPurchase_AlreadyCompleted(t *testing.T) {
	store := newPlanFake()
	tp := pendingPurchase(1, 7, 3)
	tp.Status = types.PurchaseStatusCompleted
	store.purchases[1] = tp

	_, err := newPlanService(store, &stubNotifier{}).CreateFromPurchase(context.Background(), 3, &CreatePlanRequest{TraineePlanID: 1, Type: types.PlanTypeWorkout, Title: "x"})
	require.ErrorIs(t, err, ErrPurchaseNotPending)
}

func TestCreateFromPurchase_CompletionRaceRollsBack(t *testing.T) {
	store := newPlanFake()
	store.purchases[1] = pendingPurchase(1, 7, 3)
	store.completeFails = true

	_, err := newPlanService(store, &stubNotifier{}).CreateFromPurchase(context.Background(), 3, &CreatePlanRequest{TraineePlanID: 1, Type: types.PlanTypeWorkout, Title: "x"})
	require.ErrorIs(t, err, ErrPurchaseNotPending)

	// nothing from the losing attempt survives
	require.Empty(t, store.plans)
	require.Empty(t, store.assignments)
}

func TestCreateFromPurchase_AttachFailureIsAtomic(t *testing.T) {
	store := newPlanFake()
	store.purchases[1] = pendingPurchase(1, 7, 3)
	store.attachWorkoutsErr = errors.New("fk violation")

	_, err := newPlanService(store, &stubNotifier{}).CreateFromPurchase(context.Background(), 3, &CreatePlanRequest{
		TraineePlanID: 1, Type: types.PlanTypeWorkout, Title: "x", WorkoutIDs: []int64{11},
	})
	require.Error(t, err)

	// full rollback: no plan, purchase still pending
	require.Empty(t, store.plans)
	require.Equal(t, types.PurchaseStatusPending, store.purchases[1].Status)
	require.Nil(t, store.purchases[1].PlanID)
}

func TestCreateFromPurchase_AssignmentDedup(t *testing.T) {
	store := newPlanFake()
	store.purchases[1] = pendingPurchase(1, 7, 3)
	store.userIDs[7] = 70
	// an assignment for the same trainee+charge already exists
	store.assignments["7|chg_1"] = &models.PlanAssignment{PlanID: 42, TraineeID: 7, ChargeID: "chg_1"}

	_, err := newPlanService(store, &stubNotifier{}).CreateFromPurchase(context.Background(), 3, &CreatePlanRequest{TraineePlanID: 1, Type: types.PlanTypeWorkout, Title: "x"})
	require.NoError(t, err)
	require.Len(t, store.assignments, 1)
	require.Equal(t, int64(42), store.assignments["7|chg_1"].PlanID)
}

func TestUpdate_OwnershipAndPartialFields(t *testing.T) {
	store := newPlanFake()
	store.plans[1] = &models.Plan{ID: 1, CoachProfileID: 3, Type: types.PlanTypeWorkout, Title: "Old", Description: "old desc"}
	store.nextPlanID = 1
	svc := newPlanService(store, &stubNotifier{})

	_, err := svc.Update(context.Background(), 4, 1, &UpdatePlanRequest{})
	require.ErrorIs(t, err, ErrNotPlanOwner)

	newTitle := "New"
	_, err = svc.Update(context.Background(), 3, 1, &UpdatePlanRequest{Title: &newTitle, WorkoutIDs: []int64{5}})
	require.NoError(t, err)
	require.Equal(t, "New", store.plans[1].Title)
	require.Equal(t, "old desc", store.plans[1].Description)
	require.Equal(t, []int64{5}, store.workouts[1])
}

func TestDelete_Ownership(t *testing.T) {
	store := newPlanFake()
	store.plans[1] = &models.Plan{ID: 1, CoachProfileID: 3}
	svc := newPlanService(store, &stubNotifier{})

	require.ErrorIs(t, svc.Delete(context.Background(), 4, 1), ErrNotPlanOwner)
	require.NoError(t, svc.Delete(context.Background(), 3, 1))
	require.Empty(t, store.plans)

	require.ErrorIs(t, svc.Delete(context.Background(), 3, 1), ErrPlanNotFound)
}
