package api

import "github.com/listenupapp/readingorder/internal/service"

// Services groups the business logic services used by the API server.
type Services struct {
	ReadingOrder *service.ReadingOrderService
	Settings     *service.SettingsService
}
