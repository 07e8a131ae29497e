package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

// Order is the gateway order handed back to the client, which completes
// the payment on the frontend and returns a signed assertion.
type Order struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Gateway struct {
	client    *razorpay.Client
	keySecret string
}

func NewGateway(keyID, keySecret string) *Gateway {
	return &Gateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

// CreateOrder registers an order with the gateway. Amount is in the major
// currency unit; Razorpay wants the minor unit.
func (g *Gateway) CreateOrder(amount float64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   int(amount * 100),
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return &Order{
		OrderID:  order["id"].(string),
		Amount:   amount,
		Currency: currency,
	}, nil
}

// VerifySignature checks a checkout assertion: the gateway signs
// "<order_id>|<payment_id>" with the key secret, HMAC-SHA256, hex encoded.
// Comparison is constant time.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	expected := g.sign(orderID + "|" + paymentID)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// Sign computes the signature for an order/payment pair. Exposed so tests
// and local tooling can mint valid assertions.
func (g *Gateway) Sign(orderID, paymentID string) string {
	return g.sign(orderID + "|" + paymentID)
}

func (g *Gateway) sign(payload string) string {
	h := hmac.New(sha256.New, []byte(g.keySecret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
