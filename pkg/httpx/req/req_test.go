package req_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"market_buyer/pkg/httpx/req"
)

type recipient struct {
	PartnerID string `json:"partnerId" validate:"required,numeric"`
	Token     string `json:"token" validate:"required"`
}

type purchaseRequest struct {
	HashName  string     `json:"hashName" validate:"required"`
	MaxPrice  *int64     `json:"maxPrice" validate:"omitempty,gte=0"`
	Recipient *recipient `json:"recipient"`
}

func TestRead(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		body        string
		description string
	}{
		{
			name: "Valid",
			body: `{"hashName":"AK-47 | Redline (Field-Tested)","maxPrice":1500}`,
		},
		{
			name:        "Broken JSON",
			body:        `{"hashName":`,
			description: "Invalid JSON",
		},
		{
			name:        "Missing hash name and negative price",
			body:        `{"maxPrice":-1}`,
			description: "hashName: required; maxPrice: gte=0",
		},
		{
			name:        "Nested recipient",
			body:        `{"hashName":"AWP | Asiimov (Field-Tested)","recipient":{"partnerId":"abc","token":"x"}}`,
			description: "recipient.partnerId: numeric",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			r := httptest.NewRequestWithContext(context.Background(), http.MethodPost, "/v1/purchases",
				strings.NewReader(tc.body))

			var dest purchaseRequest

			err := req.Read(r, &dest)

			if tc.description == "" {
				rq.NoError(err)
				rq.Equal("AK-47 | Redline (Field-Tested)", dest.HashName)
				return
			}

			rq.True(failure.IsInvalidArgumentError(err))
			rq.Equal(tc.description, failure.Description(err))
		})
	}
}
