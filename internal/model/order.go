package model

import "time"

// Order status values stored in biz_orders.status.
const (
	OrderStatusPending   = 1 // awaiting payment
	OrderStatusPaid      = 2
	OrderStatusShipped   = 3
	OrderStatusCompleted = 4
	OrderStatusCancelled = 5
)

// Order is a row in the `biz_orders` table.  The lifecycle timestamps are
// nullable and set as the order moves through its states.
type Order struct {
	ID             uint64     // biz_orders.id
	OrderNo        string     // biz_orders.order_no (unique)
	UserID         uint64     // biz_orders.user_id
	TotalAmount    float64    // biz_orders.total_amount
	Status         int        // biz_orders.status
	PaymentMethod  string     // biz_orders.payment_method
	PaymentTime    *time.Time // biz_orders.payment_time
	DeliveryTime   *time.Time // biz_orders.delivery_time
	CompletionTime *time.Time // biz_orders.completion_time
	CancelTime     *time.Time // biz_orders.cancel_time
	CancelReason   string     // biz_orders.cancel_reason
	CreatedAt      time.Time  // biz_orders.created_at
	UpdatedAt      time.Time  // biz_orders.updated_at
}
