package telegram

import (
	"context"
	"fmt"
	"strings"

	"storefront-orders/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the subset of *tgbotapi.BotAPI used here.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// DeliveryNotifier posts an order card to the courier chat when an order is
// handed off to delivery.
type DeliveryNotifier struct {
	api    Sender
	chatID int64
}

func NewDeliveryNotifier(token string, chatID int64) (*DeliveryNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &DeliveryNotifier{api: api, chatID: chatID}, nil
}

func NewDeliveryNotifierWithSender(api Sender, chatID int64) *DeliveryNotifier {
	return &DeliveryNotifier{api: api, chatID: chatID}
}

func (n *DeliveryNotifier) NotifyDispatched(ctx context.Context, o *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, BuildCourierCard(o))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// BuildCourierCard renders the hand-off text for couriers.
func BuildCourierCard(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚚 Order %s (%s)\n", o.ID, o.StoreID)
	fmt.Fprintf(&b, "Customer: %s, %s\n", o.Customer.Name, o.Customer.Phone)
	if o.Customer.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", o.Customer.Address)
	}
	if o.Delivery != "" {
		fmt.Fprintf(&b, "Delivery: %s\n", o.Delivery)
	}
	b.WriteString("\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "• %s × %d\n", it.Name, it.Quantity)
	}
	fmt.Fprintf(&b, "\nTotal: %s", o.Total.StringFixed(2))
	if o.Payment != "" {
		fmt.Fprintf(&b, " (%s)", o.Payment)
	}
	return b.String()
}
