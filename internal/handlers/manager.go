package handlers

import (
	"github.com/josepguedes/Projeto-2/internal/realtime"
	"github.com/josepguedes/Projeto-2/internal/services"
)

// HandlerManager holds the services behind the HTTP API.
type HandlerManager struct {
	Users         *services.UserService
	Listings      *services.ListingService
	Blocks        *services.BlockService
	Reviews       *services.ReviewService
	Messages      *services.MessageService
	Reports       *services.ReportService
	Notifications *services.NotificationService
	Categories    *services.CategoryService

	// Hub is nil when the process does not serve websockets.
	Hub *realtime.Hub
}

func NewHandlerManager(
	users *services.UserService,
	listings *services.ListingService,
	blocks *services.BlockService,
	reviews *services.ReviewService,
	messages *services.MessageService,
	reports *services.ReportService,
	notifications *services.NotificationService,
	categories *services.CategoryService,
	hub *realtime.Hub,
) *HandlerManager {
	return &HandlerManager{
		Users:         users,
		Listings:      listings,
		Blocks:        blocks,
		Reviews:       reviews,
		Messages:      messages,
		Reports:       reports,
		Notifications: notifications,
		Categories:    categories,
		Hub:           hub,
	}
}
