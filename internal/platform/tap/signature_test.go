package tap

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEvent() *WebhookEvent {
	return &WebhookEvent{
		ChargeID:         "chg_test_1",
		Status:           "CAPTURED",
		Amount:           "100.00",
		Currency:         "AED",
		Created:          "1700000000000",
		GatewayReference: "gw_1",
		PaymentReference: "pay_1",
	}
}

func TestSignatureString(t *testing.T) {
	got := SignatureString(testEvent())
	want := "x_idchg_test_1" +
		"x_amount100.00" +
		"x_currencyAED" +
		"x_gateway_referencegw_1" +
		"x_payment_referencepay_1" +
		"x_statusCAPTURED" +
		"x_created1700000000000"
	require.Equal(t, want, got)
}

func TestSignatureHeaderVariants(t *testing.T) {
	for _, name := range []string{"hashstring", "Tap-Hash", "TAP-SIGNATURE", "tap_hash", "X-Tap-Signature", "tap-hash-sha256"} {
		h := http.Header{}
		h.Set(name, "abc")
		require.Equal(t, "abc", SignatureHeader(h), name)
	}
	require.Equal(t, "", SignatureHeader(http.Header{}))
}

func TestVerify_ProdValidSignature(t *testing.T) {
	evt := testEvent()
	v := NewSignatureVerifier("secret-1", true, zap.NewNop().Sugar())

	h := http.Header{}
	h.Set("tap-signature", ComputeSignature(evt, "secret-1"))
	require.NoError(t, v.Verify(evt, h))
}

func TestVerify_ProdRejectsWrongSecret(t *testing.T) {
	evt := testEvent()
	v := NewSignatureVerifier("secret-1", true, zap.NewNop().Sugar())

	h := http.Header{}
	h.Set("tap-signature", ComputeSignature(evt, "other-secret"))
	require.ErrorIs(t, v.Verify(evt, h), ErrInvalidSignature)
}

func TestVerify_ProdRejectsTamperedAmount(t *testing.T) {
	evt := testEvent()
	v := NewSignatureVerifier("secret-1", true, zap.NewNop().Sugar())

	h := http.Header{}
	h.Set("tap-signature", ComputeSignature(evt, "secret-1"))

	evt.Amount = "1.00"
	require.ErrorIs(t, v.Verify(evt, h), ErrInvalidSignature)
}

func TestVerify_ProdRejectsMissingHeader(t *testing.T) {
	v := NewSignatureVerifier("secret-1", true, zap.NewNop().Sugar())
	require.ErrorIs(t, v.Verify(testEvent(), http.Header{}), ErrInvalidSignature)
}

func TestVerify_NonProdAllowsMissingAndMismatch(t *testing.T) {
	evt := testEvent()
	v := NewSignatureVerifier("secret-1", false, zap.NewNop().Sugar())

	require.NoError(t, v.Verify(evt, http.Header{}))

	h := http.Header{}
	h.Set("tap-signature", "deadbeef")
	require.NoError(t, v.Verify(evt, h))
}

func TestVerify_ProdFailsClosedWithoutSecret(t *testing.T) {
	v := NewSignatureVerifier("", true, zap.NewNop().Sugar())

	h := http.Header{}
	h.Set("tap-signature", "anything")
	require.ErrorIs(t, v.Verify(testEvent(), h), ErrInvalidSignature)
}
