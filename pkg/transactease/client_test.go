package transactease

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClient_TransactionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, TransactionStatusPath, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "ak-test", r.Header.Get(HeaderAccessKey))
		assert.Equal(t, "2025-03-14T09:30:00", r.Header.Get(HeaderTimestamp))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(body), `"MsgType":"GET_TRANSACTION_STATUS"`)
		assert.Contains(t, string(body), `"RequestID":"REQ1"`)

		msg := joinPipe("POST", TransactionStatusPath, r.Header.Get(HeaderTimestamp), r.Header.Get(HeaderNonce), string(body))
		assert.Equal(t, ComputeSignature(msg, testSecret), r.Header.Get(HeaderSignature))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MsgInfo":{"MsgType":"GET_TRANSACTION_STATUS"},"MsgData":{"ResponseCode":"000","RequestID":"REQ1","TransactionID":"TX9","Amount":120000}}`))
	}))
	defer srv.Close()

	g, err := NewGateway(Config{
		MerchantUserID: "PGW-TEST",
		AccessKey:      "ak-test",
		SecretKey:      testSecret,
		BaseURL:        srv.URL,
	}, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	resp, err := NewStatusClient(g, nil).TransactionStatus(context.Background(), "REQ1", "tok")
	require.NoError(t, err)
	assert.Equal(t, CodeSuccess, resp.MsgData.ResponseCode)
	assert.Equal(t, "TX9", resp.MsgData.TransactionID)
	assert.Equal(t, Amount("120000"), resp.MsgData.Amount)
}

func TestStatusClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	g, err := NewGateway(Config{MerchantUserID: "m", AccessKey: "a", SecretKey: "s", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = NewStatusClient(g, nil).TransactionStatus(context.Background(), "REQ1", "")
	assert.Error(t, err)

	_, err = NewStatusClient(g, nil).TransactionStatus(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrMissingField)
}
