package service

import (
	"github.com/uptrace/bun"
	"github.com/vanaways/paylink/cashflows"
	"github.com/vanaways/paylink/gateway"
	"github.com/vanaways/paylink/rabbitmq"
	"github.com/ziflex/lecho/v3"
)

type PaylinkService struct {
	Config         *Config
	DB             *bun.DB
	CashflowStore  cashflows.Store
	GatewayClient  gateway.PaymentGatewayWrapper
	Logger         *lecho.Logger
	PaymentPubSub  *Pubsub
	RabbitMQClient rabbitmq.Client
}
