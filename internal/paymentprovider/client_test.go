package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateTransaction(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		response    any
		wantSuccess bool
		wantErr     bool
	}{
		{
			name:       "processor confirms transaction",
			statusCode: http.StatusCreated,
			response: CreateTransactionResponse{
				Success:       true,
				TransactionID: "tx-123",
			},
			wantSuccess: true,
		},
		{
			name:       "processor rejects transaction",
			statusCode: http.StatusOK,
			response: CreateTransactionResponse{
				Success: false,
				Message: "insufficient funds",
			},
			wantSuccess: false,
		},
		{
			name:       "processor unavailable",
			statusCode: http.StatusInternalServerError,
			response:   map[string]string{"error": "internal"},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/transactions", r.URL.Path)
				assert.Equal(t, "test-api-key", r.Header.Get("X-CC-Api-Key"))

				var req CreateTransactionRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.InEpsilon(t, 5.0, req.Amount, 1e-9)
				assert.Equal(t, "BTC", req.Currency)
				assert.Equal(t, "wallet-addr", req.Wallet)

				w.WriteHeader(tt.statusCode)
				_ = json.NewEncoder(w).Encode(tt.response)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "test-api-key")
			resp, err := client.CreateTransaction(context.Background(), CreateTransactionRequest{
				Amount:   5.0,
				Currency: "BTC",
				Wallet:   "wallet-addr",
			})

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, resp.Success)
		})
	}
}
