package reconciler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/suniorfit/backend/internal/app/service/notification"
	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/internal/platform/tap"
	"github.com/suniorfit/backend/pkg/types"
)

type fakeStore struct {
	payments  map[string]*models.Payment
	trainees  map[int64]*models.TraineeProfile
	coaches   map[int64]*models.CoachProfile
	purchases map[string]*models.TraineePlan
	upsertErr error
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		payments:  map[string]*models.Payment{},
		trainees:  map[int64]*models.TraineeProfile{},
		coaches:   map[int64]*models.CoachProfile{},
		purchases: map[string]*models.TraineePlan{},
	}
}

func (s *fakeStore) UpsertPayment(_ context.Context, p *models.Payment) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.payments[p.ChargeID] = p
	return nil
}

func (s *fakeStore) FindTrainee(_ context.Context, id int64) (*models.TraineeProfile, error) {
	return s.trainees[id], nil
}

func (s *fakeStore) FindCoach(_ context.Context, id int64) (*models.CoachProfile, error) {
	return s.coaches[id], nil
}

func (s *fakeStore) CreatePurchase(_ context.Context, tp *models.TraineePlan) (bool, error) {
	key := fmt.Sprintf("%d|%d|%s", tp.TraineeID, tp.CoachProfileID, tp.ChargeID)
	if _, exists := s.purchases[key]; exists {
		return false, nil
	}
	s.nextID++
	tp.ID = s.nextID
	s.purchases[key] = tp
	return true, nil
}

type recordingNotifier struct {
	recipients []int64
	types      []types.NotificationType
	err        error
}

func (n *recordingNotifier) Dispatch(_ context.Context, recipientID int64, typ types.NotificationType, _ notification.Payload) (*models.Notification, error) {
	n.recipients = append(n.recipients, recipientID)
	n.types = append(n.types, typ)
	return &models.Notification{ID: "n-1", RecipientID: recipientID, Type: typ}, n.err
}

func capturedEvent() *tap.WebhookEvent {
	return &tap.WebhookEvent{
		ChargeID: "chg_1",
		Status:   "CAPTURED",
		Amount:   "100.00",
		Currency: "AED",
		Metadata: tap.Metadata{TraineeID: 7, CoachProfileID: 3, PlanType: "workout"},
		Object:   map[string]any{},
		Raw:      []byte(`{"id":"chg_1"}`),
	}
}

func newTestService(store Store, notif Notifier) *Service {
	return NewService(store, notif, zap.NewNop().Sugar())
}

func TestProcess_SuccessCreatesPendingPurchase(t *testing.T) {
	store := newFakeStore()
	store.trainees[7] = &models.TraineeProfile{ID: 7, UserID: 70, User: &models.User{ID: 70, Name: "Sara"}}
	store.coaches[3] = &models.CoachProfile{ID: 3, UserID: 30}
	notif := &recordingNotifier{}

	res, err := newTestService(store, notif).Process(context.Background(), capturedEvent())
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, res.Outcome)
	require.NotNil(t, res.Purchase)
	require.Equal(t, types.PurchaseStatusPending, res.Purchase.Status)
	require.Equal(t, int64(7), res.Purchase.TraineeID)
	require.Equal(t, int64(3), res.Purchase.CoachProfileID)
	require.Equal(t, "chg_1", res.Purchase.ChargeID)

	// ledger row written
	require.Contains(t, store.payments, "chg_1")
	require.Equal(t, "CAPTURED", store.payments["chg_1"].Status)

	// coach notified on their user id
	require.Equal(t, []int64{30}, notif.recipients)
	require.Equal(t, []types.NotificationType{types.NotificationTypeTraineePurchase}, notif.types)
}

func TestProcess_ReplayIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.trainees[7] = &models.TraineeProfile{ID: 7, UserID: 70}
	store.coaches[3] = &models.CoachProfile{ID: 3, UserID: 30}
	notif := &recordingNotifier{}
	svc := newTestService(store, notif)

	first, err := svc.Process(context.Background(), capturedEvent())
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, first.Outcome)

	second, err := svc.Process(context.Background(), capturedEvent())
	require.NoError(t, err)
	require.Equal(t, OutcomeAlreadyProcessed, second.Outcome)

	require.Len(t, store.purchases, 1)
	// only the first delivery notifies
	require.Len(t, notif.recipients, 1)
}

func TestProcess_NonSuccessStatusOnlyUpdatesLedger(t *testing.T) {
	store := newFakeStore()
	notif := &recordingNotifier{}

	evt := capturedEvent()
	evt.Status = "DECLINED"

	res, err := newTestService(store, notif).Process(context.Background(), evt)
	require.NoError(t, err)
	require.Equal(t, OutcomeIgnored, res.Outcome)

	require.Contains(t, store.payments, "chg_1")
	require.Empty(t, store.purchases)
	require.Empty(t, notif.recipients)
}

func TestProcess_SuccessStatusIsCaseInsensitive(t *testing.T) {
	store := newFakeStore()
	store.trainees[7] = &models.TraineeProfile{ID: 7, UserID: 70}
	store.coaches[3] = &models.CoachProfile{ID: 3, UserID: 30}

	evt := capturedEvent()
	evt.Status = "captured"

	res, err := newTestService(store, &recordingNotifier{}).Process(context.Background(), evt)
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, res.Outcome)
}

func TestProcess_MalformedMetadata(t *testing.T) {
	store := newFakeStore()

	evt := capturedEvent()
	evt.Metadata = tap.Metadata{PlanType: "workout"}

	_, err := newTestService(store, &recordingNotifier{}).Process(context.Background(), evt)
	require.ErrorIs(t, err, ErrMalformedMetadata)

	// the payment itself is still recorded
	require.Contains(t, store.payments, "chg_1")
	require.Empty(t, store.purchases)
}

func TestProcess_TraineeOrCoachMissing(t *testing.T) {
	store := newFakeStore()
	store.coaches[3] = &models.CoachProfile{ID: 3, UserID: 30}

	_, err := newTestService(store, &recordingNotifier{}).Process(context.Background(), capturedEvent())
	require.ErrorIs(t, err, ErrTraineeNotFound)

	store.trainees[7] = &models.TraineeProfile{ID: 7, UserID: 70}
	delete(store.coaches, 3)

	_, err = newTestService(store, &recordingNotifier{}).Process(context.Background(), capturedEvent())
	require.ErrorIs(t, err, ErrCoachNotFound)
}

func TestProcess_LedgerWriteFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errors.New("db down")

	_, err := newTestService(store, &recordingNotifier{}).Process(context.Background(), capturedEvent())
	require.Error(t, err)
	require.Empty(t, store.purchases)
}

func TestProcess_NotifyFailureDoesNotFailDelivery(t *testing.T) {
	store := newFakeStore()
	store.trainees[7] = &models.TraineeProfile{ID: 7, UserID: 70}
	store.coaches[3] = &models.CoachProfile{ID: 3, UserID: 30}
	notif := &recordingNotifier{err: errors.New("push down")}

	res, err := newTestService(store, notif).Process(context.Background(), capturedEvent())
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, res.Outcome)
}
