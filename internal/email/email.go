package email

import (
	"context"
	"fmt"

	"github.com/skyfare/airline-service/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.OrderEvent) error {
	fmt.Printf("send email to %s: order %d confirmed with %d ticket(s)\n", event.Email, event.OrderID, len(event.Tickets))
	return nil
}
