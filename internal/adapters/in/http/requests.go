package http

import (
	"encoding/json"

	"dispatch/internal/core/application/usecases/commands"
)

// OrderLineRequest is one cart line.
type OrderLineRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Qty       int `json:"qty" validate:"required,gt=0"`
}

// CreateOrderRequest is the checkout payload. ChatID is set by the chat
// bot web app; other clients send CustomerRef.
type CreateOrderRequest struct {
	Items       []OrderLineRequest `json:"items" validate:"dive"`
	ChatID      json.Number        `json:"chatId,omitempty"`
	CustomerRef string             `json:"customerRef,omitempty" validate:"max=64"`
	Zone        string             `json:"zone,omitempty"`
	Priority    string             `json:"priority,omitempty"`
}

func (r CreateOrderRequest) lines() []commands.OrderLine {
	lines := make([]commands.OrderLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, commands.OrderLine{ProductID: item.ProductID, Quantity: item.Qty})
	}
	return lines
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type PriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

type AssignRequest struct {
	RiderID string `json:"riderId,omitempty"`
}

type RiderStatusRequest struct {
	RiderID string `json:"riderId" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

type ConfirmDeliveryRequest struct {
	Code        string      `json:"code" validate:"required"`
	ChatID      json.Number `json:"chatId,omitempty"`
	CustomerRef string      `json:"customerRef,omitempty"`
}

// customerRef prefers the chat id the bot supplies.
func customerRef(chatID json.Number, ref string) string {
	if chatID != "" {
		return chatID.String()
	}
	return ref
}
