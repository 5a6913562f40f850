package tap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"

	cfgpkg "github.com/suniorfit/backend/pkg/config"
)

const defaultTimeout = 10 * time.Second

// Client is a thin wrapper around the Tap charges REST API.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
	log       *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Client {
	timeout := cfg.Tap.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.Tap.BaseURL, "/"),
		secretKey: cfg.Tap.SecretKey,
		http:      &http.Client{Timeout: timeout},
		log:       log,
	}
}

type Customer struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

type CreateChargeRequest struct {
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
	Customer    *Customer      `json:"customer"`
	// CallbackURL receives the server-to-server webhook for this charge.
	CallbackURL string `json:"-"`
	// RedirectURL is where the payer's browser lands after checkout.
	RedirectURL string `json:"-"`
}

// CreateChargeResult always carries the provider's raw response so callers
// can log diagnostics on failure.
type CreateChargeResult struct {
	ChargeID    string
	CheckoutURL string
	Raw         json.RawMessage
}

// Charge is the subset of the Tap charge object this service reads back.
type Charge struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Transaction *txnPart        `json:"transaction"`
	Reference   *referencePart  `json:"reference"`
	Raw         json.RawMessage `json:"-"`
}

type txnPart struct {
	URL string `json:"url"`
}

type referencePart struct {
	Transaction string `json:"transaction"`
	Order       string `json:"order"`
}

// CreateCharge creates a hosted-checkout charge. The payer completes payment
// off-system; the outcome comes back through the webhook.
func (c *Client) CreateCharge(ctx context.Context, req *CreateChargeRequest) (*CreateChargeResult, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount: %v", req.Amount)
	}

	payload := map[string]any{
		"amount":      req.Amount,
		"currency":    strings.ToUpper(req.Currency),
		"description": req.Description,
		"metadata":    req.Metadata,
		"customer":    req.Customer,
		"source":      map[string]any{"id": "src_all"},
		"post":        map[string]any{"url": req.CallbackURL},
		"redirect":    map[string]any{"url": req.RedirectURL},
	}

	body, raw, status, err := c.do(ctx, http.MethodPost, "/charges", payload)
	if err != nil {
		return nil, fmt.Errorf("tap create charge: %w", err)
	}
	if status >= http.StatusBadRequest {
		c.log.Errorw("tap_create_charge_failed", "status", status, "raw", string(raw))
		return &CreateChargeResult{Raw: raw}, fmt.Errorf("tap create charge: provider returned %d", status)
	}

	res := &CreateChargeResult{Raw: raw}
	if id, ok := body["id"].(string); ok {
		res.ChargeID = id
	}
	res.CheckoutURL = checkoutURLFrom(body)
	if res.CheckoutURL == "" || res.ChargeID == "" {
		return res, fmt.Errorf("tap create charge: response missing checkout url or charge id")
	}
	return res, nil
}

// RetrieveCharge fetches the current state of a charge. The call is an
// idempotent GET, so transient transport errors are retried.
func (c *Client) RetrieveCharge(ctx context.Context, chargeID string) (*Charge, error) {
	if chargeID == "" {
		return nil, fmt.Errorf("empty charge id")
	}

	var out *Charge
	err := retry.Do(
		func() error {
			_, raw, status, err := c.do(ctx, http.MethodGet, "/charges/"+chargeID, nil)
			if err != nil {
				return err
			}
			if status >= http.StatusInternalServerError {
				return fmt.Errorf("provider returned %d", status)
			}
			if status >= http.StatusBadRequest {
				return retry.Unrecoverable(fmt.Errorf("provider returned %d: %s", status, string(raw)))
			}
			charge := &Charge{Raw: raw}
			if err := json.Unmarshal(raw, charge); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode charge: %w", err))
			}
			out = charge
			return nil
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("tap retrieve charge %s: %w", chargeID, err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (map[string]any, json.RawMessage, int, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(stripNulls(payload))
		if err != nil {
			return nil, nil, 0, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, resp.StatusCode, err
	}

	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return body, raw, resp.StatusCode, nil
}

// checkoutURLFrom looks in the two places Tap has historically put the hosted
// checkout link.
func checkoutURLFrom(body map[string]any) string {
	if txn, ok := body["transaction"].(map[string]any); ok {
		if u, ok := txn["url"].(string); ok && u != "" {
			return u
		}
	}
	if links, ok := body["links"].(map[string]any); ok {
		if u, ok := links["checkout"].(string); ok && u != "" {
			return u
		}
	}
	return ""
}

// stripNulls removes nil values and empty maps recursively; the Tap API
// rejects explicit nulls in optional blocks.
func stripNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			cleaned := stripNulls(val)
			if cleaned == nil {
				continue
			}
			if m, ok := cleaned.(map[string]any); ok && len(m) == 0 {
				continue
			}
			out[k] = cleaned
		}
		return out
	case *Customer:
		if t == nil {
			return nil
		}
		return t
	case nil:
		return nil
	default:
		return v
	}
}
