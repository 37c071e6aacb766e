package database

import (
	"fmt"
	"time"

	"github.com/cmaia/mercado-trading/internal/api"
)

// Order-log actions.
const (
	ActionPlaced    = "placed"
	ActionCancelled = "cancelled"
)

// OrderRecord represents an order-log row
type OrderRecord struct {
	ID               int64
	OrderID          int64
	CoinPair         string
	Side             string
	Status           string
	Quantity         float64
	LimitPrice       float64
	ExecutedQuantity float64
	ExecutedPriceAvg float64
	Fee              float64
	Action           string
	RecordedAt       time.Time
}

// SaveOrder records an order the client placed or cancelled
func (db *DB) SaveOrder(action string, order *api.Order) error {
	query := `
		INSERT INTO orders (
			order_id, coin_pair, side, status, quantity,
			limit_price, executed_quantity, executed_price_avg, fee, action
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (order_id, coin_pair, action)
		DO NOTHING
	`

	_, err := db.Exec(
		query,
		order.OrderID,
		order.CoinPair,
		order.OrderType.String(),
		order.Status.String(),
		order.Quantity,
		order.LimitPrice,
		order.ExecutedQuantity,
		order.ExecutedPriceAvg,
		order.Fee,
		action,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

// RecentOrders returns the most recent order-log rows for a coin pair
func (db *DB) RecentOrders(coinPair string, limit int) ([]OrderRecord, error) {
	query := `
		SELECT id, order_id, coin_pair, side, status, quantity,
			limit_price, executed_quantity, executed_price_avg, fee,
			action, recorded_at
		FROM orders
		WHERE coin_pair = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := db.Query(query, coinPair, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var records []OrderRecord
	for rows.Next() {
		var r OrderRecord
		if err := rows.Scan(
			&r.ID, &r.OrderID, &r.CoinPair, &r.Side, &r.Status,
			&r.Quantity, &r.LimitPrice, &r.ExecutedQuantity,
			&r.ExecutedPriceAvg, &r.Fee, &r.Action, &r.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	return records, nil
}
