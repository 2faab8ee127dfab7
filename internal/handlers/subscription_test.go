package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoicePayloadRoundtrip(t *testing.T) {
	payload := encodeInvoicePayload(3, "3f1a7c1e")
	assert.Equal(t, "sub:3:3f1a7c1e", payload)

	months, token, err := parseInvoicePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, 3, months)
	assert.Equal(t, "3f1a7c1e", token)
}

func TestParseInvoicePayloadRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"sub",
		"sub:3",
		"sub:3:tok:extra",
		"other:3:tok",
		"sub:abc:tok",
		"sub:0:tok",
		"sub:-1:tok",
	}
	for _, payload := range cases {
		_, _, err := parseInvoicePayload(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}
