package cashflows

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vanaways/paylink/lib/logging"
)

func testAPIStore(commsURL, cashflowURL string) *APIStore {
	return NewAPIStore(&Config{
		StoreKind:          StoreKindAPI,
		CommsAPIBaseUrl:    commsURL,
		CommsAPIKey:        "comms-key",
		CashflowAPIBaseUrl: cashflowURL,
		CashflowAPIKey:     "cashflow-key",
		APITimeout:         5,
		ClaimTTL:           60,
		APIMaxRetries:      2,
	}, nil, logging.Logger(""))
}

func TestAPIStoreLookup(t *testing.T) {
	comms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "comms-key", r.Header.Get("x-api-key"))
		// hashes are normalized to lower case before the remote lookup
		assert.Equal(t, "abc123", r.URL.Query().Get("cashflowIdHash"))
		fmt.Fprint(w, `{"success":true,"data":{"relationshipId":10,"opportunityId":20,"quoteId":30,"cashflowId":40}}`)
	}))
	defer comms.Close()

	cashflowAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cashflow-key", r.Header.Get("api-key"))
		assert.Equal(t, "/quotevine/api/v2/relationships/10/opportunities/20/quotes/30/cashflows/40/", r.URL.Path)
		fmt.Fprint(w, `{"cashflow_id":40,"cashflow_type":"DEPOSIT","description":"Vehicle deposit","net_amount":100.00,"tax_amount":20.00,"paid_amount":0}`)
	}))
	defer cashflowAPI.Close()

	store := testAPIStore(comms.URL, cashflowAPI.URL)
	cashflow, err := store.Lookup(context.Background(), "ABC123")
	assert.NoError(t, err)
	assert.Equal(t, int64(40), cashflow.ID)
	assert.Equal(t, "ABC123", cashflow.Hash)
	assert.Equal(t, "Vehicle deposit", cashflow.Description)
	assert.Equal(t, int64(10000), cashflow.NetAmount)
	assert.Equal(t, int64(2000), cashflow.TaxAmount)
	assert.Equal(t, int64(0), cashflow.PaidAmount)
	assert.Equal(t, int64(12000), cashflow.TotalAmount())
	assert.False(t, cashflow.FullyPaid())
}

func TestAPIStoreLookupUnknownHash(t *testing.T) {
	comms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false}`)
	}))
	defer comms.Close()

	store := testAPIStore(comms.URL, "http://unused.invalid")
	_, err := store.Lookup(context.Background(), "nosuchhash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAPIStoreLookupNotFoundIsNotRetried(t *testing.T) {
	requests := 0
	comms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer comms.Close()

	store := testAPIStore(comms.URL, "http://unused.invalid")
	_, err := store.Lookup(context.Background(), "nosuchhash")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, requests)
}

func TestAPIStoreLookupRetriesServerErrors(t *testing.T) {
	requests := 0
	comms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"success":true,"data":{"relationshipId":10,"opportunityId":20,"quoteId":30,"cashflowId":40}}`)
	}))
	defer comms.Close()

	cashflowAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"cashflow_id":40,"net_amount":100.00,"tax_amount":20.00,"paid_amount":0}`)
	}))
	defer cashflowAPI.Close()

	store := testAPIStore(comms.URL, cashflowAPI.URL)
	cashflow, err := store.Lookup(context.Background(), "abc123")
	assert.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Equal(t, int64(40), cashflow.ID)
}
