package tap

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// WebhookEvent is the canonical, normalized form of a Tap webhook delivery.
// All the historical payload shape variants are flattened here at the
// boundary so reconciliation logic never has to sniff the body.
type WebhookEvent struct {
	ChargeID         string
	Status           string
	Amount           string
	Currency         string
	Created          string
	GatewayReference string
	PaymentReference string
	Metadata         Metadata
	// Object is the extracted charge/authorize/invoice object.
	Object map[string]any
	// Raw is the untouched request body.
	Raw json.RawMessage
}

// Metadata is the purchase correlation blob attached at charge creation.
// Tap round-trips values as strings or numbers depending on the channel, so
// ids are normalized during parsing.
type Metadata struct {
	TraineeID      int64
	CoachProfileID int64
	PlanType       string
	Items          any
}

// HasPurchaseFields reports whether the blob carries everything the
// reconciler needs to build a purchase record.
func (m Metadata) HasPurchaseFields() bool {
	return m.TraineeID > 0 && m.CoachProfileID > 0 && m.PlanType != ""
}

// AmountValue parses the normalized amount string; zero when absent.
func (e *WebhookEvent) AmountValue() float64 {
	f, _ := strconv.ParseFloat(e.Amount, 64)
	return f
}

var amountRe = regexp.MustCompile(`"amount"\s*:\s*([0-9]+(?:\.[0-9]+)?)`)

// ParseWebhook normalizes a raw webhook body into a WebhookEvent.
// Tap has shipped several body shapes over time: the charge object may be
// flat, or nested under "charge", "authorize" or "invoice"; the created
// timestamp moves between transaction.date.created, transaction.created and
// created; references use gateway/transaction and payment/order pairs.
func ParseWebhook(raw []byte) (*WebhookEvent, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("invalid webhook body: %w", err)
	}

	obj := body
	for _, key := range []string{"charge", "authorize", "invoice"} {
		if nested, ok := body[key].(map[string]any); ok {
			obj = nested
			break
		}
	}

	evt := &WebhookEvent{
		ChargeID: asString(obj["id"]),
		Status:   asString(obj["status"]),
		Currency: asString(obj["currency"]),
		Created:  extractCreated(obj),
		Object:   obj,
		Raw:      json.RawMessage(raw),
	}

	// Amount: prefer the exact textual form from the raw body so the
	// signature string matches what the provider hashed; fall back to the
	// structured field.
	if m := amountRe.FindSubmatch(raw); m != nil {
		evt.Amount = string(m[1])
	} else if obj["amount"] != nil {
		evt.Amount = asString(obj["amount"])
	}

	if ref, ok := obj["reference"].(map[string]any); ok {
		evt.GatewayReference = firstString(ref, "gateway", "transaction")
		evt.PaymentReference = firstString(ref, "payment", "order")
	}

	if meta, ok := obj["metadata"].(map[string]any); ok {
		evt.Metadata = Metadata{
			TraineeID:      asInt64(meta["trainee_id"]),
			CoachProfileID: asInt64(meta["coach_profile_id"]),
			PlanType:       asString(meta["plan_type"]),
			Items:          meta["items"],
		}
	}

	if evt.ChargeID == "" {
		return nil, fmt.Errorf("webhook body missing charge id")
	}
	if evt.Status == "" {
		return nil, fmt.Errorf("webhook body missing status")
	}
	return evt, nil
}

func extractCreated(obj map[string]any) string {
	if txn, ok := obj["transaction"].(map[string]any); ok {
		if date, ok := txn["date"].(map[string]any); ok {
			if v := asString(date["created"]); v != "" {
				return v
			}
		}
		if v := asString(txn["created"]); v != "" {
			return v
		}
	}
	return asString(obj["created"])
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := asString(m[k]); v != "" {
			return v
		}
	}
	return ""
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without exponent
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	case json.Number:
		n, _ := t.Int64()
		return n
	default:
		return 0
	}
}
