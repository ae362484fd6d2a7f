package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"marketplace/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationOrderPlaced    NotificationType = "ORDER_PLACED"
	NotificationOrderAccepted  NotificationType = "ORDER_ACCEPTED"
	NotificationStatusChanged  NotificationType = "STATUS_CHANGED"
	NotificationOrderSettled   NotificationType = "ORDER_SETTLED"
	NotificationOrderCancelled NotificationType = "ORDER_CANCELLED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	CreatedAt   time.Time
}

// NotificationService handles notification delivery. Delivery transports
// (push, SMS, websocket) live outside this core; the stub logs payloads.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyOrderAccepted notifies the customer that a driver took the order.
func (s *NotificationService) NotifyOrderAccepted(ctx context.Context, order *domain.Order) error {
	return s.send(ctx, Notification{
		Type:        NotificationOrderAccepted,
		RecipientID: order.CustomerID,
		Title:       "Driver Assigned",
		Message:     fmt.Sprintf("Driver %s accepted your %s order", order.DriverID, order.ServiceType),
		CreatedAt:   time.Now(),
	})
}

// NotifyStatusChanged notifies the customer about a lifecycle change.
func (s *NotificationService) NotifyStatusChanged(ctx context.Context, order *domain.Order) error {
	return s.send(ctx, Notification{
		Type:        NotificationStatusChanged,
		RecipientID: order.CustomerID,
		Title:       "Order Update",
		Message:     fmt.Sprintf("Your order is now %s", order.Status),
		CreatedAt:   time.Now(),
	})
}

// NotifySettled notifies the driver that the payout was credited.
func (s *NotificationService) NotifySettled(ctx context.Context, order *domain.Order) error {
	return s.send(ctx, Notification{
		Type:        NotificationOrderSettled,
		RecipientID: order.DriverID,
		Title:       "Payout Credited",
		Message:     fmt.Sprintf("Settlement for order %s has been credited to your wallet", order.ID),
		CreatedAt:   time.Now(),
	})
}

// NotifyOrderCancelled notifies both sides about a cancellation.
func (s *NotificationService) NotifyOrderCancelled(ctx context.Context, order *domain.Order) error {
	if err := s.send(ctx, Notification{
		Type:        NotificationOrderCancelled,
		RecipientID: order.CustomerID,
		Title:       "Order Cancelled",
		Message:     fmt.Sprintf("Order %s was cancelled", order.ID),
		CreatedAt:   time.Now(),
	}); err != nil {
		return err
	}
	if order.DriverID == "" {
		return nil
	}
	return s.send(ctx, Notification{
		Type:        NotificationOrderCancelled,
		RecipientID: order.DriverID,
		Title:       "Order Cancelled",
		Message:     fmt.Sprintf("Order %s was cancelled", order.ID),
		CreatedAt:   time.Now(),
	})
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Message)
	return nil
}
