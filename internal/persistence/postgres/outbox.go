package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// eventMetadata describes how to route an outbox event.
type eventMetadata struct {
	Topic string
}

var eventCatalog = map[string]eventMetadata{
	"user.created":   {Topic: "gym_user_events"},
	"program.saved":  {Topic: "gym_program_events"},
	"schedule.saved": {Topic: "gym_schedule_events"},
}

// insertOutbox records a domain event in the same transaction as the aggregate
// write, for later delivery by the outbox dispatcher.
func insertOutbox(ctx context.Context, tx pgx.Tx, tenantID, aggregateType, aggregateID, eventType, dedupeKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta := eventCatalog[eventType]
	if meta.Topic == "" {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	partitionKey := fmt.Sprintf("%s:%s", tenantID, aggregateID)

	const stmt = `INSERT INTO outbox (tenant_id, aggregate_type, aggregate_id, event_type, topic, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		tenantID,
		aggregateType,
		aggregateID,
		eventType,
		meta.Topic,
		partitionKey,
		body,
		dedupeKey,
	)
	return err
}
