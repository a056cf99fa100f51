package cashflows

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
	"github.com/vanaways/paylink/common"
	"github.com/vanaways/paylink/db/models"
	"github.com/vanaways/paylink/lib/money"
	"github.com/ziflex/lecho/v3"
)

// APIStore talks to the back-office system of record over REST: a
// communications API resolves the public hash to internal ids, the cashflow
// API reads and updates the record itself. The remote API has no transaction
// we can join, so the local payments table acts as a cross-process
// single-flight lock keyed on payment_reference: a claim row is taken before
// the remote update and settled after it.
type APIStore struct {
	db     *bun.DB
	client *http.Client
	logger *lecho.Logger

	commsBaseUrl    string
	commsAPIKey     string
	cashflowBaseUrl string
	cashflowAPIKey  string
	claimTTL        time.Duration
	maxRetries      uint64
}

func NewAPIStore(c *Config, dbConn *bun.DB, logger *lecho.Logger) *APIStore {
	claimTTL := time.Duration(c.ClaimTTL) * time.Second
	// A claim must outlive the slowest legitimate apply, otherwise a slow
	// attempt looks crashed and gets taken over while it is still running.
	// The remote apply makes three calls, each retried up to maxRetries
	// times against the request timeout.
	minTTL := 3 * time.Duration(c.APIMaxRetries+1) * time.Duration(c.APITimeout) * time.Second
	if claimTTL < minTTL {
		logger.Warnf("Claim TTL %s is below the worst-case apply duration, raising it to %s", claimTTL, minTTL)
		claimTTL = minTTL
	}
	return &APIStore{
		db:              dbConn,
		client:          &http.Client{Timeout: time.Duration(c.APITimeout) * time.Second},
		logger:          logger,
		commsBaseUrl:    strings.TrimSuffix(c.CommsAPIBaseUrl, "/"),
		commsAPIKey:     c.CommsAPIKey,
		cashflowBaseUrl: strings.TrimSuffix(c.CashflowAPIBaseUrl, "/"),
		cashflowAPIKey:  c.CashflowAPIKey,
		claimTTL:        claimTTL,
		maxRetries:      c.APIMaxRetries,
	}
}

type remoteIds struct {
	RelationshipID int64 `json:"relationshipId"`
	OpportunityID  int64 `json:"opportunityId"`
	QuoteID        int64 `json:"quoteId"`
	CashflowID     int64 `json:"cashflowId"`
}

type lookupResponse struct {
	Success bool       `json:"success"`
	Data    *remoteIds `json:"data"`
}

type remoteCashflow struct {
	CashflowID               int64   `json:"cashflow_id"`
	CashflowType             string  `json:"cashflow_type"`
	Description              *string `json:"description"`
	NetAmount                float64 `json:"net_amount"`
	TaxAmount                float64 `json:"tax_amount"`
	VatRateType              *string `json:"vat_rate_type"`
	PaidAmount               float64 `json:"paid_amount"`
	PaidDate                 *string `json:"paid_date"`
	PaymentReference         *string `json:"payment_reference"`
	AdminViewOnlyFlag        string  `json:"admin_view_only_flag"`
	AccountOwnerViewOnlyFlag string  `json:"account_owner_view_only_flag"`
}

func (store *APIStore) Lookup(ctx context.Context, hash string) (*Cashflow, error) {
	ids, err := store.lookupIds(ctx, hash)
	if err != nil {
		return nil, err
	}
	remote, err := store.fetchRemote(ctx, ids)
	if err != nil {
		return nil, err
	}
	description := ""
	if remote.Description != nil {
		description = *remote.Description
	}
	return &Cashflow{
		ID:          ids.CashflowID,
		Hash:        hash,
		Description: description,
		NetAmount:   money.ToMinorUnits(remote.NetAmount),
		TaxAmount:   money.ToMinorUnits(remote.TaxAmount),
		PaidAmount:  money.ToMinorUnits(remote.PaidAmount),
	}, nil
}

func (store *APIStore) ApplyPayment(ctx context.Context, cashflow *Cashflow, amount int64, paymentReference string) error {
	claim, err := store.claimPayment(ctx, cashflow, amount, paymentReference)
	if err != nil {
		return err
	}

	err = store.applyRemote(ctx, cashflow, amount, paymentReference)
	if err != nil {
		store.releaseClaim(ctx, claim)
		return err
	}

	return store.settleClaim(ctx, claim)
}

// claimPayment inserts the payment row in initialized state. The unique
// constraint on payment_reference turns the second of two concurrent claims
// into a conflict, which resolves to AlreadyApplied (winner settled),
// ApplyInFlight (winner still applying) or a takeover of a stale claim left
// behind by a crashed attempt. The claim token identifies the current owner:
// settle and release only act while the token still matches, so an attempt
// that lost its claim to a takeover cannot corrupt the new owner's state.
func (store *APIStore) claimPayment(ctx context.Context, cashflow *Cashflow, amount int64, paymentReference string) (*models.Payment, error) {
	payment := &models.Payment{
		PaymentReference: paymentReference,
		CashflowID:       cashflow.ID,
		CashflowHash:     cashflow.Hash,
		Amount:           amount,
		State:            common.PaymentStateInitialized,
		ClaimToken:       random.String(32, random.Alphanumeric),
	}
	_, err := store.db.NewInsert().Model(payment).Exec(ctx)
	if err == nil {
		return payment, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	var existing models.Payment
	if err := store.db.NewSelect().Model(&existing).Where("payment_reference = ?", paymentReference).Limit(1).Scan(ctx); err != nil {
		return nil, err
	}
	if existing.State == common.PaymentStateSettled {
		return nil, ErrAlreadyApplied
	}

	staleBefore := time.Now().Add(-store.claimTTL)
	res, err := store.db.NewUpdate().Model((*models.Payment)(nil)).
		Set("claim_token = ?", payment.ClaimToken).
		Set("updated_at = ?", time.Now()).
		Where("payment_reference = ? AND state = ? AND COALESCE(updated_at, created_at) < ?",
			paymentReference, common.PaymentStateInitialized, staleBefore).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrApplyInFlight
	}
	store.logger.Infof("Taking over stale payment claim payment_reference:%s cashflow_id:%d", paymentReference, cashflow.ID)
	existing.State = common.PaymentStateInitialized
	existing.ClaimToken = payment.ClaimToken
	return &existing, nil
}

// settleClaim marks the claim settled while we still own it. A takeover may
// have assumed the claim in the meantime, then the new owner settles it and
// ours is a no-op.
func (store *APIStore) settleClaim(ctx context.Context, payment *models.Payment) error {
	res, err := store.db.NewUpdate().Model((*models.Payment)(nil)).
		Set("state = ?", common.PaymentStateSettled).
		Set("updated_at = ?", time.Now()).
		Where("payment_reference = ? AND claim_token = ?", payment.PaymentReference, payment.ClaimToken).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		store.logger.Warnf("Payment claim was taken over before settling payment_reference:%s", payment.PaymentReference)
	}
	return nil
}

func (store *APIStore) releaseClaim(ctx context.Context, payment *models.Payment) {
	_, err := store.db.NewDelete().Model((*models.Payment)(nil)).
		Where("payment_reference = ? AND state = ? AND claim_token = ?",
			payment.PaymentReference, common.PaymentStateInitialized, payment.ClaimToken).
		Exec(ctx)
	if err != nil {
		store.logger.Errorf("Could not release payment claim payment_reference:%s %v", payment.PaymentReference, err)
	}
}

// applyRemote re-reads the remote record and PUTs the new absolute paid
// amount, preserving the fields the remote API requires on update.
func (store *APIStore) applyRemote(ctx context.Context, cashflow *Cashflow, amount int64, paymentReference string) error {
	ids, err := store.lookupIds(ctx, cashflow.Hash)
	if err != nil {
		return err
	}
	remote, err := store.fetchRemote(ctx, ids)
	if err != nil {
		return err
	}

	// A takeover that raced a slow attempt may have landed this payment
	// already. The remote record carries the last applied reference, a
	// match means there is nothing left to write.
	if remote.PaymentReference != nil && *remote.PaymentReference == paymentReference {
		store.logger.Infof("Remote record already carries payment_reference:%s cashflow_id:%d", paymentReference, ids.CashflowID)
		return nil
	}

	totalPaid := money.FromMinorUnits(money.ToMinorUnits(remote.PaidAmount) + amount)
	vatRateType := "Standard"
	if remote.VatRateType != nil && *remote.VatRateType != "" {
		vatRateType = *remote.VatRateType
	}
	adminViewOnly := remote.AdminViewOnlyFlag
	if adminViewOnly == "" {
		adminViewOnly = "N"
	}
	accountOwnerViewOnly := remote.AccountOwnerViewOnlyFlag
	if accountOwnerViewOnly == "" {
		accountOwnerViewOnly = "N"
	}
	payload := map[string]interface{}{
		"cashflow_type":                remote.CashflowType,
		"description":                  remote.Description,
		"net_amount":                   remote.NetAmount,
		"vat_rate_type":                vatRateType,
		"admin_view_only_flag":         adminViewOnly,
		"account_owner_view_only_flag": accountOwnerViewOnly,
		"paid_date":                    time.Now().Format("2006-01-02"),
		"paid_amount":                  totalPaid,
		"payment_reference":            paymentReference,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, store.cashflowUrl(ids), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", store.cashflowAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := store.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("cashflow API update failed: %s", resp.Status)
	}
	store.logger.Infof("Marked cashflow as paid cashflow_id:%d payment_reference:%s", ids.CashflowID, paymentReference)
	return nil
}

func (store *APIStore) lookupIds(ctx context.Context, hash string) (*remoteIds, error) {
	url := fmt.Sprintf("%s/api/cashflow/lookup?cashflowIdHash=%s", store.commsBaseUrl, strings.ToLower(hash))

	var result lookupResponse
	err := store.getJSON(ctx, url, "x-api-key", store.commsAPIKey, &result)
	if err != nil {
		return nil, err
	}
	if !result.Success || result.Data == nil {
		return nil, ErrNotFound
	}
	return result.Data, nil
}

func (store *APIStore) fetchRemote(ctx context.Context, ids *remoteIds) (*remoteCashflow, error) {
	var result remoteCashflow
	err := store.getJSON(ctx, store.cashflowUrl(ids), "api-key", store.cashflowAPIKey, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (store *APIStore) cashflowUrl(ids *remoteIds) string {
	return fmt.Sprintf("%s/quotevine/api/v2/relationships/%d/opportunities/%d/quotes/%d/cashflows/%d/",
		store.cashflowBaseUrl, ids.RelationshipID, ids.OpportunityID, ids.QuoteID, ids.CashflowID)
}

// getJSON retries transport failures and 5xx responses with exponential
// backoff. 404s map to ErrNotFound and are not retried.
func (store *APIStore) getJSON(ctx context.Context, url, authHeader, authValue string, result interface{}) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set(authHeader, authValue)
		req.Header.Set("Content-Type", "application/json")

		resp, err := store.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(ErrNotFound)
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("cashflow API request failed: %s", resp.Status)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("cashflow API request failed: %s", resp.Status))
		}
		return json.NewDecoder(resp.Body).Decode(result)
	}

	exponentialBackoff := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), store.maxRetries)
	return backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx))
}

var _ Store = (*APIStore)(nil)
