package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/vanaways/paylink/common"
	"github.com/vanaways/paylink/db/models"
)

// a hung notification endpoint must not hold up anything else, every post
// is bounded
var webhookClient = &http.Client{Timeout: 30 * time.Second}

// StartNotificationRoutine forwards applied payments to the configured
// back-office webhook and/or the RabbitMQ payment exchange. Delivery is
// best-effort: failures are logged and never affect reconciliation itself.
func (svc *PaylinkService) StartNotificationRoutine(ctx context.Context) {
	svc.Logger.Infof("Starting payment notification routine")
	// buffered so a slow delivery does not backpressure Publish on the
	// reconciliation path
	payments := make(chan models.Payment, 32)
	subId := svc.PaymentPubSub.Subscribe(common.PaymentStateSettled, payments)
	defer svc.PaymentPubSub.Unsubscribe(subId, common.PaymentStateSettled)
	for {
		select {
		case <-ctx.Done():
			return
		case payment := <-payments:
			if svc.Config.NotificationWebhookUrl != "" {
				svc.postToWebhook(payment)
			}
			if svc.RabbitMQClient != nil {
				if err := svc.RabbitMQClient.PublishPayment(ctx, &payment); err != nil {
					svc.Logger.Errorf("Could not publish payment payment_reference:%s %v", payment.PaymentReference, err)
				}
			}
		}
	}
}

func (svc *PaylinkService) postToWebhook(payment models.Payment) {
	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(payment)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := webhookClient.Post(svc.Config.NotificationWebhookUrl, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
