package alias

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
)

const bobKey = "02aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// newDirectory serves a fixed alias table the way the lookup service does.
func newDirectory(t *testing.T, table map[string]string, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	router := mux.NewRouter()
	router.HandleFunc(LookupPath, func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			http.Error(w, "missing request id", http.StatusBadRequest)
			return
		}

		var req lookupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}

		key, ok := table[req.Alias]
		if !ok {
			http.Error(w, "unknown alias", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(lookupResponse{PublicKey: key})
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := newDirectory(t, map[string]string{"bob": bobKey}, &calls)

	client, err := NewClient(srv.URL + "/")
	require.NoError(t, err)

	pk, err := client.Lookup(context.Background(), "bob")
	require.NoError(t, err)

	want, err := txn.ParsePublicKeyHex(bobKey)
	require.NoError(t, err)
	assert.Equal(t, want, pk)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLookupNotFound(t *testing.T) {
	srv := newDirectory(t, map[string]string{}, nil)
	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Lookup(context.Background(), "carol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "unknown alias", statusErr.Body)
}

func TestLookupRejectsWrongMethod(t *testing.T) {
	srv := newDirectory(t, map[string]string{"bob": bobKey}, nil)

	resp, err := http.Get(srv.URL + LookupPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestLookupBadKey(t *testing.T) {
	srv := newDirectory(t, map[string]string{"bob": "0411"}, nil)
	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Lookup(context.Background(), "bob")
	var intentErr *txn.IntentError
	require.ErrorAs(t, err, &intentErr)
	assert.Equal(t, txn.ErrInvalidPublicKey, intentErr.Code)
}

func TestLookupTransportFailure(t *testing.T) {
	srv := newDirectory(t, nil, nil)
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = client.Lookup(context.Background(), "bob")
	assert.Error(t, err)
}

func TestLookupHonoursContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Lookup(ctx, "bob")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("  ")
	assert.Error(t, err)
}
