package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/admin-panel-api/internal/model"
)

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "id,order_no,user_id,total_amount,status,payment_method,payment_time,delivery_time,completion_time,cancel_time,cancel_reason,created_at,updated_at"

func scanOrder(scan func(dest ...interface{}) error) (model.Order, error) {
	var o model.Order
	var userID sql.NullInt64
	var method, reason sql.NullString
	var payT, delT, compT, canT sql.NullTime
	err := scan(&o.ID, &o.OrderNo, &userID, &o.TotalAmount, &o.Status, &method,
		&payT, &delT, &compT, &canT, &reason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Order{}, err
	}
	o.UserID = uint64(userID.Int64)
	o.PaymentMethod = method.String
	o.CancelReason = reason.String
	for _, pair := range []struct {
		src sql.NullTime
		dst **time.Time
	}{{payT, &o.PaymentTime}, {delT, &o.DeliveryTime}, {compT, &o.CompletionTime}, {canT, &o.CancelTime}} {
		if pair.src.Valid {
			t := pair.src.Time
			*pair.dst = &t
		}
	}
	return o, nil
}

// GetByID fetches one order.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM biz_orders WHERE id=? LIMIT 1", id)
	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

// Create inserts an order.  OrderNo is unique.
func (r *OrderRepo) Create(ctx context.Context, o model.Order) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO biz_orders (order_no, user_id, total_amount, status, payment_method) VALUES (?,?,?,?,?)",
		o.OrderNo, nullableID(o.UserID), o.TotalAmount, o.Status, o.PaymentMethod)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateStatus moves an order to a new status and stamps the matching
// lifecycle column.  Unknown statuses update only the status itself.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status int, reason string, at time.Time) error {
	var column string
	switch status {
	case model.OrderStatusPaid:
		column = "payment_time"
	case model.OrderStatusShipped:
		column = "delivery_time"
	case model.OrderStatusCompleted:
		column = "completion_time"
	case model.OrderStatusCancelled:
		column = "cancel_time"
	}
	var res sql.Result
	var err error
	if column == "" {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE biz_orders SET status=? WHERE id=?", status, id)
	} else if status == model.OrderStatusCancelled {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE biz_orders SET status=?, cancel_time=?, cancel_reason=? WHERE id=?",
			status, at, reason, id)
	} else {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE biz_orders SET status=?, "+column+"=? WHERE id=?", status, at, id)
	}
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes one order.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM biz_orders WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// List returns one page of orders plus the total row count.
func (r *OrderRepo) List(ctx context.Context, page, size int) ([]model.Order, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM biz_orders").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM biz_orders ORDER BY id DESC LIMIT ? OFFSET ?",
		size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}
