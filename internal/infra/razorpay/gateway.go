// File: internal/infra/razorpay/gateway.go
package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog"

	"interview-prep-subscription/internal/domain"
	"interview-prep-subscription/internal/domain/ports/adapter"
	"interview-prep-subscription/internal/infra/logging"
)

var _ adapter.PaymentGateway = (*Gateway)(nil)

// Gateway wraps the Razorpay SDK for order creation plus the HMAC signature
// check used at confirmation time. The signature check never touches the
// network: it is a pure recomputation with the server-held secret.
type Gateway struct {
	client      *razorpay.Client
	keyID       string
	keySecret   string
	publicKeyID string
	log         *zerolog.Logger
}

func NewGateway(keyID, keySecret, publicKeyID string, logger *zerolog.Logger) *Gateway {
	g := &Gateway{
		keyID:       keyID,
		keySecret:   keySecret,
		publicKeyID: publicKeyID,
		log:         logger,
	}
	if keyID != "" && keySecret != "" {
		g.client = razorpay.NewClient(keyID, keySecret)
	} else {
		logger.Warn().Msg("razorpay credentials not configured; purchase endpoints will return 503")
	}
	return g
}

func (g *Gateway) Name() string { return "razorpay" }

func (g *Gateway) Ready() bool { return g.client != nil && g.keySecret != "" }

func (g *Gateway) KeyID() string { return g.publicKeyID }

type orderResult struct {
	id  string
	err error
}

// CreateOrder creates a provider order. The SDK has no context support, so
// the call runs in a goroutine and the deadline is enforced with a select;
// a timed-out call is reported as a gateway failure.
func (g *Gateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	if !g.Ready() {
		return "", domain.ErrNotConfigured
	}

	data := map[string]interface{}{
		"amount":   amountMinor, // smallest currency unit (paise)
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	ch := make(chan orderResult, 1)
	go func() {
		order, err := g.client.Order.Create(data, nil)
		if err != nil {
			ch <- orderResult{err: err}
			return
		}
		id, _ := order["id"].(string)
		if id == "" {
			ch <- orderResult{err: fmt.Errorf("order response missing id")}
			return
		}
		ch <- orderResult{id: id}
	}()

	select {
	case <-ctx.Done():
		g.log.Error().Err(ctx.Err()).Msg("razorpay order creation timed out")
		return "", fmt.Errorf("%w: %v", domain.ErrGateway, ctx.Err())
	case res := <-ch:
		if res.err != nil {
			// Raw provider errors go to logs only; callers surface a
			// sanitized message. The request payload passes through key
			// redaction before it is attached.
			g.log.Error().Err(res.err).Fields(logging.SafeFields(data)).Msg("razorpay order creation failed")
			return "", fmt.Errorf("%w: %s", domain.ErrGateway, safeProviderMessage(res.err))
		}
		g.log.Info().Str("order_id", res.id).Int64("amount", amountMinor).Msg("razorpay order created")
		return res.id, nil
	}
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" as
// lowercase hex and compares in constant time. This is the single gate
// preventing a client from fabricating a successful payment.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) error {
	if g.keySecret == "" {
		return domain.ErrNotConfigured
	}
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// safeProviderMessage keeps responses free of provider internals. The SDK
// returns structured errors with a human description; anything else
// collapses to a generic message.
func safeProviderMessage(err error) string {
	msg := err.Error()
	if len(msg) > 140 {
		msg = msg[:140]
	}
	return msg
}
