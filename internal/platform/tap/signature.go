package tap

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"go.uber.org/zap"
)

// signatureHeaders are the header names Tap has used to carry the webhook
// hash across integrations. Lookup is case-insensitive via http.Header.
var signatureHeaders = []string{
	"hashstring",
	"tap-hash",
	"tap-signature",
	"tap_hash",
	"x-tap-signature",
	"tap-hash-sha256",
}

// SignatureHeader returns the first populated hash header, or "".
func SignatureHeader(h http.Header) string {
	for _, name := range signatureHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// SignatureString builds the canonical concatenation Tap hashes:
// x_id{id}x_amount{amount}x_currency{currency}x_gateway_reference{ref}x_payment_reference{ref}x_status{status}x_created{created}
func SignatureString(evt *WebhookEvent) string {
	return "x_id" + evt.ChargeID +
		"x_amount" + evt.Amount +
		"x_currency" + evt.Currency +
		"x_gateway_reference" + evt.GatewayReference +
		"x_payment_reference" + evt.PaymentReference +
		"x_status" + evt.Status +
		"x_created" + evt.Created
}

// ComputeSignature returns the hex HMAC-SHA256 of the canonical string.
func ComputeSignature(evt *WebhookEvent, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(SignatureString(evt)))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureVerifier gates inbound webhooks. The policy is deliberately
// environment-dependent: in prod a missing or mismatching signature fails
// closed; anywhere else it is logged and allowed so sandbox traffic (which
// often omits the header entirely) still flows.
type SignatureVerifier struct {
	secret string
	prod   bool
	log    *zap.SugaredLogger
}

func NewSignatureVerifier(secret string, prod bool, log *zap.SugaredLogger) *SignatureVerifier {
	return &SignatureVerifier{secret: secret, prod: prod, log: log}
}

// Verify checks the webhook hash against the declared fields. It returns nil
// when the request may proceed and ErrInvalidSignature when it must be
// rejected. Every attempt is logged with the computed and received hash.
func (v *SignatureVerifier) Verify(evt *WebhookEvent, headers http.Header) error {
	received := SignatureHeader(headers)

	if received == "" {
		if v.prod {
			v.log.Warnw("webhook_signature_missing", "charge_id", evt.ChargeID)
			return ErrInvalidSignature
		}
		v.log.Warnw("webhook_signature_missing_allowed", "charge_id", evt.ChargeID, "env", "non-prod")
		return nil
	}

	if v.secret == "" {
		if v.prod {
			v.log.Errorw("webhook_secret_not_configured", "charge_id", evt.ChargeID)
			return ErrInvalidSignature
		}
		v.log.Warnw("webhook_secret_not_configured_allowed", "charge_id", evt.ChargeID, "env", "non-prod")
		return nil
	}

	computed := ComputeSignature(evt, v.secret)
	match := hmac.Equal([]byte(computed), []byte(received))

	v.log.Infow("webhook_signature_checked",
		"charge_id", evt.ChargeID,
		"string", SignatureString(evt),
		"computed", computed,
		"received", received,
		"match", match,
	)

	if !match {
		if v.prod {
			return ErrInvalidSignature
		}
		v.log.Warnw("webhook_signature_mismatch_allowed", "charge_id", evt.ChargeID, "env", "non-prod")
	}
	return nil
}
