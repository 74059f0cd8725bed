package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

const SECRET = "8e4d3b2a1f0c9e8d7c6b5a4f3e2d1c0b"

var Body = []byte(`{"destination":"U0","events":[{"type":"message","message":{"type":"text","text":"明日までに数学の宿題"}}]}`)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidate(t *testing.T) {
	validator := NewHMAC(SECRET)
	valid := sign(SECRET, Body)

	cases := []struct {
		id        string
		body      []byte
		signature string
		expected  bool
	}{
		{id: "valid", body: Body, signature: valid, expected: true},
		{id: "empty signature", body: Body, signature: "", expected: false},
		{id: "other secret", body: Body, signature: sign("other", Body), expected: false},
		{id: "not base64", body: Body, signature: "not a signature", expected: false},
		{id: "reencoded body", body: []byte(string(Body) + "\n"), signature: valid, expected: false},
		{id: "empty body", body: []byte{}, signature: sign(SECRET, []byte{}), expected: true},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			require.Equal(t, testcase.expected, validator.Validate(testcase.body, testcase.signature))
		})
	}
}

func TestAnyBitFlipInvalidatesSignature(t *testing.T) {
	validator := NewHMAC(SECRET)
	signature := validator.Sign(Body)
	require.True(t, validator.Validate(Body, signature))

	for i := range Body {
		for bit := 0; bit < 8; bit++ {
			flipped := make([]byte, len(Body))
			copy(flipped, Body)
			flipped[i] ^= 1 << bit
			require.False(t, validator.Validate(flipped, signature), "byte %d bit %d", i, bit)
		}
	}
}
