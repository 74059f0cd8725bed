package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// HMAC checks the X-Line-Signature header of webhook requests.
type HMAC struct {
	channelSecret string
}

func NewHMAC(channelSecret string) *HMAC {
	return &HMAC{channelSecret: channelSecret}
}

// Validate must receive the request body exactly as it was read from the wire.
func (h *HMAC) Validate(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return webhook.ValidateSignature(h.channelSecret, signature, body)
}

// Sign produces the header value the platform sends for body. The SDK only
// validates, so signing stays on crypto/hmac.
func (h *HMAC) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(h.channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
