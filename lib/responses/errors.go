package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadSignatureError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "webhook signature verification failed",
	HttpStatusCode: 400,
}

var MissingMetadataError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "checkout session metadata is missing",
	HttpStatusCode: 400,
}

var CashflowNotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "cashflow not found",
	HttpStatusCode: 404,
}

var SessionNotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Message:        "checkout session not found",
	HttpStatusCode: 404,
}

var CheckoutSessionError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "could not create checkout session",
	HttpStatusCode: 500,
}

var TransientServerError = ErrorResponse{
	Error:          true,
	Code:           7,
	Message:        "temporary processing failure. Please try again",
	HttpStatusCode: 500,
}

// PaymentNotCompletedResponse is returned by the verify endpoint when the
// gateway session is not paid yet. Status echoes the gateway's own
// payment status so the client can display it.
type PaymentNotCompletedResponse struct {
	Error   bool   `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func PaymentNotCompleted(status string) PaymentNotCompletedResponse {
	return PaymentNotCompletedResponse{
		Error:   true,
		Code:    2,
		Message: "payment not completed",
		Status:  status,
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
		return
	}
	c.JSON(http.StatusInternalServerError, GeneralServerError)
}
