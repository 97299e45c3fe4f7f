// Package clickhouse records screen interaction events (bet toggles, modal
// opens, tab switches) for offline analysis. Production only: development
// runs pass a nil *Client and every call becomes a no-op.
package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Client provides the ClickHouse analytics sink
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client and ensures the events table
// exists
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	c := &Client{conn: conn}
	if err := c.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) initSchema() error {
	ddl := `
		CREATE TABLE IF NOT EXISTS view_events (
			ts         DateTime,
			session    String,
			event_type String,
			stat       String,
			side       String
		)
		ENGINE = MergeTree
		ORDER BY (event_type, ts)
		TTL ts + INTERVAL 90 DAY
	`
	return c.conn.Exec(context.Background(), ddl)
}

// RecordViewEvent stores one screen interaction. Stat and side are empty
// for events not tied to a statistic.
func (c *Client) RecordViewEvent(ctx context.Context, session, eventType, stat, side string) error {
	if c == nil {
		return nil
	}
	return c.conn.Exec(ctx, `
		INSERT INTO view_events (ts, session, event_type, stat, side)
		VALUES ($1, $2, $3, $4, $5)
	`, time.Now().UTC(), session, eventType, stat, side)
}

// CountEventsByType returns interaction counts over the last 30 days,
// used by the health endpoint in production
func (c *Client) CountEventsByType() (map[string]uint64, error) {
	counts := make(map[string]uint64)

	rows, err := c.conn.Query(context.Background(), `
		SELECT event_type, count() AS n
		FROM view_events
		WHERE ts >= now() - INTERVAL 30 DAY
		GROUP BY event_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var eventType string
		var n uint64
		if err := rows.Scan(&eventType, &n); err != nil {
			return nil, err
		}
		counts[eventType] = n
	}

	return counts, nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
