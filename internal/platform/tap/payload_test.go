package tap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWebhook_FlatChargeBody(t *testing.T) {
	raw := []byte(`{
		"id": "chg_123",
		"status": "CAPTURED",
		"amount": 150.00,
		"currency": "AED",
		"transaction": {"date": {"created": "1700000000000"}},
		"reference": {"gateway": "gw_1", "payment": "pay_1"},
		"metadata": {"trainee_id": "7", "coach_profile_id": 3, "plan_type": "workout"}
	}`)

	evt, err := ParseWebhook(raw)
	require.NoError(t, err)
	require.Equal(t, "chg_123", evt.ChargeID)
	require.Equal(t, "CAPTURED", evt.Status)
	require.Equal(t, "AED", evt.Currency)
	require.Equal(t, "1700000000000", evt.Created)
	require.Equal(t, "gw_1", evt.GatewayReference)
	require.Equal(t, "pay_1", evt.PaymentReference)
	require.Equal(t, int64(7), evt.Metadata.TraineeID)
	require.Equal(t, int64(3), evt.Metadata.CoachProfileID)
	require.Equal(t, "workout", evt.Metadata.PlanType)
	require.True(t, evt.Metadata.HasPurchaseFields())
}

func TestParseWebhook_AmountKeepsTextualForm(t *testing.T) {
	// the signature string must reuse the provider's exact rendering,
	// trailing zeros included
	raw := []byte(`{"id": "chg_1", "status": "CAPTURED", "amount": 99.90, "currency": "AED"}`)

	evt, err := ParseWebhook(raw)
	require.NoError(t, err)
	require.Equal(t, "99.90", evt.Amount)
	require.InDelta(t, 99.9, evt.AmountValue(), 0.0001)
}

func TestParseWebhook_NestedChargeObject(t *testing.T) {
	raw := []byte(`{
		"charge": {
			"id": "chg_nested",
			"status": "FAILED",
			"amount": 20,
			"currency": "AED",
			"transaction": {"created": "1700000001000"},
			"reference": {"transaction": "txn_2", "order": "ord_2"}
		}
	}`)

	evt, err := ParseWebhook(raw)
	require.NoError(t, err)
	require.Equal(t, "chg_nested", evt.ChargeID)
	require.Equal(t, "FAILED", evt.Status)
	require.Equal(t, "1700000001000", evt.Created)
	require.Equal(t, "txn_2", evt.GatewayReference)
	require.Equal(t, "ord_2", evt.PaymentReference)
	require.False(t, evt.Metadata.HasPurchaseFields())
}

func TestParseWebhook_InvoiceObject(t *testing.T) {
	raw := []byte(`{"invoice": {"id": "inv_1", "status": "PAID", "created": "1700000002000"}}`)

	evt, err := ParseWebhook(raw)
	require.NoError(t, err)
	require.Equal(t, "inv_1", evt.ChargeID)
	require.Equal(t, "PAID", evt.Status)
	require.Equal(t, "1700000002000", evt.Created)
}

func TestParseWebhook_Rejections(t *testing.T) {
	_, err := ParseWebhook([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseWebhook([]byte(`{"status": "CAPTURED"}`))
	require.Error(t, err)

	_, err = ParseWebhook([]byte(`{"id": "chg_1"}`))
	require.Error(t, err)
}

func TestParseWebhook_MetadataMissingFields(t *testing.T) {
	raw := []byte(`{"id": "chg_1", "status": "CAPTURED", "metadata": {"plan_type": "nutrition"}}`)

	evt, err := ParseWebhook(raw)
	require.NoError(t, err)
	require.False(t, evt.Metadata.HasPurchaseFields())
}
