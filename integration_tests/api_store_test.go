package integration_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/vanaways/paylink/cashflows"
	"github.com/vanaways/paylink/common"
	"github.com/vanaways/paylink/db/models"
	"github.com/vanaways/paylink/lib/logging"
	"github.com/vanaways/paylink/lib/service"
)

// APIStoreTestSuite exercises the remote-backed store against fake
// back-office APIs, with the real payments table acting as the claim lock.
type APIStoreTestSuite struct {
	TestSuite
	service     *service.PaylinkService
	store       *cashflows.APIStore
	comms       *httptest.Server
	cashflowAPI *httptest.Server

	remotePaid float64
	remoteRef  string
	failPuts   bool
	puts       int

	mu       sync.Mutex
	gate     chan struct{}
	gateHeld chan struct{}
}

// armGate makes the next cashflow API read block until gate is closed.
// held is closed once that read is parked, later reads pass through.
func (suite *APIStoreTestSuite) armGate() (gate, held chan struct{}) {
	suite.mu.Lock()
	defer suite.mu.Unlock()
	suite.gate = make(chan struct{})
	suite.gateHeld = make(chan struct{})
	return suite.gate, suite.gateHeld
}

func (suite *APIStoreTestSuite) takeGate() (gate, held chan struct{}) {
	suite.mu.Lock()
	defer suite.mu.Unlock()
	gate, held = suite.gate, suite.gateHeld
	suite.gate, suite.gateHeld = nil, nil
	return gate, held
}

func (suite *APIStoreTestSuite) SetupSuite() {
	svc, err := PaylinkTestServiceInit(nil)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc

	suite.comms = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cashflowIdHash") != "abc123" {
			fmt.Fprint(w, `{"success":false}`)
			return
		}
		fmt.Fprint(w, `{"success":true,"data":{"relationshipId":10,"opportunityId":20,"quoteId":30,"cashflowId":40}}`)
	}))

	suite.cashflowAPI = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			suite.puts++
			if suite.failPuts {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			var payload map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			suite.remotePaid = payload["paid_amount"].(float64)
			suite.remoteRef = payload["payment_reference"].(string)
			fmt.Fprint(w, `{}`)
			return
		}
		if gate, held := suite.takeGate(); gate != nil {
			close(held)
			<-gate
		}
		fmt.Fprintf(w, `{"cashflow_id":40,"cashflow_type":"DEPOSIT","net_amount":100.00,"tax_amount":20.00,"paid_amount":%v,"payment_reference":"%s"}`, suite.remotePaid, suite.remoteRef)
	}))

	suite.store = cashflows.NewAPIStore(&cashflows.Config{
		StoreKind:          cashflows.StoreKindAPI,
		CommsAPIBaseUrl:    suite.comms.URL,
		CommsAPIKey:        "comms-key",
		CashflowAPIBaseUrl: suite.cashflowAPI.URL,
		CashflowAPIKey:     "cashflow-key",
		APITimeout:         5,
		ClaimTTL:           60,
		APIMaxRetries:      1,
	}, svc.DB, logging.Logger(""))
}

func (suite *APIStoreTestSuite) TearDownSuite() {
	suite.comms.Close()
	suite.cashflowAPI.Close()
}

func (suite *APIStoreTestSuite) TearDownTest() {
	suite.remotePaid = 0
	suite.remoteRef = ""
	suite.failPuts = false
	suite.puts = 0
	assert.NoError(suite.T(), clearTable(suite.service, "payments"))
}

func (suite *APIStoreTestSuite) TestApplyPaymentSettlesClaim() {
	ctx := context.Background()
	cashflow, err := suite.store.Lookup(ctx, "abc123")
	assert.NoError(suite.T(), err)

	err = suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 120.0, suite.remotePaid)

	var payment models.Payment
	err = suite.service.DB.NewSelect().Model(&payment).Where("payment_reference = ?", "pi_api_1").Scan(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.PaymentStateSettled, payment.State)

	// the settled claim refuses a second application
	err = suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_1")
	assert.ErrorIs(suite.T(), err, cashflows.ErrAlreadyApplied)
	assert.Equal(suite.T(), 1, suite.puts)
}

func (suite *APIStoreTestSuite) TestFailedRemoteUpdateReleasesClaim() {
	ctx := context.Background()
	cashflow, err := suite.store.Lookup(ctx, "abc123")
	assert.NoError(suite.T(), err)

	suite.failPuts = true
	err = suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_2")
	assert.Error(suite.T(), err)

	// the claim is gone, so a retry can run the update again
	suite.failPuts = false
	err = suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_2")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 120.0, suite.remotePaid)
}

func (suite *APIStoreTestSuite) TestFreshClaimBlocksConcurrentApply() {
	ctx := context.Background()
	cashflow, err := suite.store.Lookup(ctx, "abc123")
	assert.NoError(suite.T(), err)

	claim := &models.Payment{
		PaymentReference: "pi_api_3",
		CashflowID:       cashflow.ID,
		CashflowHash:     cashflow.Hash,
		Amount:           12000,
		State:            common.PaymentStateInitialized,
	}
	_, err = suite.service.DB.NewInsert().Model(claim).Exec(ctx)
	assert.NoError(suite.T(), err)

	err = suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_3")
	assert.ErrorIs(suite.T(), err, cashflows.ErrApplyInFlight)
	assert.Equal(suite.T(), 0, suite.puts)
}

func (suite *APIStoreTestSuite) TestStaleClaimIsTakenOver() {
	ctx := context.Background()
	cashflow, err := suite.store.Lookup(ctx, "abc123")
	assert.NoError(suite.T(), err)

	// a claim left behind by a crashed attempt, older than the TTL
	claim := &models.Payment{
		PaymentReference: "pi_api_4",
		CashflowID:       cashflow.ID,
		CashflowHash:     cashflow.Hash,
		Amount:           12000,
		State:            common.PaymentStateInitialized,
		CreatedAt:        time.Now().Add(-5 * time.Minute),
	}
	_, err = suite.service.DB.NewInsert().Model(claim).Exec(ctx)
	assert.NoError(suite.T(), err)

	err = suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_4")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 120.0, suite.remotePaid)

	var payment models.Payment
	err = suite.service.DB.NewSelect().Model(&payment).Where("payment_reference = ?", "pi_api_4").Scan(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.PaymentStateSettled, payment.State)
}

func (suite *APIStoreTestSuite) TestRemoteReferenceAlreadyAppliedSkipsUpdate() {
	ctx := context.Background()
	cashflow, err := suite.store.Lookup(ctx, "abc123")
	assert.NoError(suite.T(), err)

	// the remote record already carries this reference, a previous attempt
	// landed the payment before losing its claim
	suite.remotePaid = 120.0
	suite.remoteRef = "pi_api_5"

	err = suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_5")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, suite.puts)
	assert.Equal(suite.T(), 120.0, suite.remotePaid)

	var payment models.Payment
	err = suite.service.DB.NewSelect().Model(&payment).Where("payment_reference = ?", "pi_api_5").Scan(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.PaymentStateSettled, payment.State)
}

func (suite *APIStoreTestSuite) TestTakeoverRacingSlowWinnerAppliesOnce() {
	ctx := context.Background()
	cashflow, err := suite.store.Lookup(ctx, "abc123")
	assert.NoError(suite.T(), err)

	// the slow attempt claims the payment, then hangs in its remote read
	gate, held := suite.armGate()
	slowDone := make(chan error, 1)
	go func() {
		slowDone <- suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_6")
	}()
	select {
	case <-held:
	case <-time.After(3 * time.Second):
		suite.T().Fatal("slow attempt never reached its remote read")
	}

	// age the claim past the TTL so the second attempt takes it over
	_, err = suite.service.DB.NewUpdate().Model((*models.Payment)(nil)).
		Set("created_at = ?", time.Now().Add(-5*time.Minute)).
		Set("updated_at = NULL").
		Where("payment_reference = ?", "pi_api_6").
		Exec(ctx)
	assert.NoError(suite.T(), err)

	err = suite.store.ApplyPayment(ctx, cashflow, 12000, "pi_api_6")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 120.0, suite.remotePaid)

	// release the slow attempt: it re-reads the remote record, sees its
	// reference already applied and writes nothing further
	close(gate)
	assert.NoError(suite.T(), <-slowDone)
	assert.Equal(suite.T(), 1, suite.puts)
	assert.Equal(suite.T(), 120.0, suite.remotePaid)

	var payment models.Payment
	err = suite.service.DB.NewSelect().Model(&payment).Where("payment_reference = ?", "pi_api_6").Scan(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.PaymentStateSettled, payment.State)
}

func TestAPIStoreSuite(t *testing.T) {
	suite.Run(t, new(APIStoreTestSuite))
}
