package tap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/suniorfit/backend/pkg/config"
)

func newTestClient(baseURL string) *Client {
	cfg := &cfgpkg.Config{}
	cfg.Tap.BaseURL = baseURL
	cfg.Tap.SecretKey = "sk_test_1"
	return NewClient(cfg, zap.NewNop().Sugar())
}

func TestCreateCharge_Success(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/charges", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chg_1", "transaction": {"url": "https://checkout.tap.test/chg_1"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.CreateCharge(context.Background(), &CreateChargeRequest{
		Amount:      150,
		Currency:    "aed",
		Description: "test",
		Metadata:    map[string]any{"trainee_id": 7},
		CallbackURL: "https://api.test/webhook",
		RedirectURL: "https://api.test/redirect",
	})
	require.NoError(t, err)
	require.Equal(t, "chg_1", res.ChargeID)
	require.Equal(t, "https://checkout.tap.test/chg_1", res.CheckoutURL)

	require.Equal(t, "Bearer sk_test_1", gotAuth)
	require.Equal(t, "AED", gotPayload["currency"])
	source := gotPayload["source"].(map[string]any)
	require.Equal(t, "src_all", source["id"])
	post := gotPayload["post"].(map[string]any)
	require.Equal(t, "https://api.test/webhook", post["url"])
}

func TestCreateCharge_ProviderErrorKeepsRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors": [{"code": "1100"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.CreateCharge(context.Background(), &CreateChargeRequest{Amount: 10, Currency: "AED"})
	require.Error(t, err)
	require.NotNil(t, res)
	require.Contains(t, string(res.Raw), "1100")
}

func TestCreateCharge_RejectsInvalidAmount(t *testing.T) {
	c := newTestClient("http://unused")
	_, err := c.CreateCharge(context.Background(), &CreateChargeRequest{Amount: 0, Currency: "AED"})
	require.Error(t, err)
}

func TestRetrieveCharge_RetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/charges/chg_1", r.URL.Path)
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id": "chg_1", "status": "CAPTURED", "amount": 150, "currency": "AED"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	charge, err := c.RetrieveCharge(context.Background(), "chg_1")
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, "CAPTURED", charge.Status)
	require.Equal(t, 150.0, charge.Amount)
}

func TestRetrieveCharge_DoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.RetrieveCharge(context.Background(), "chg_1")
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
