package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendRewardEvent(ctx context.Context, data RewardEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var category any
	if data.Category != "" {
		category = data.Category
	}

	return r.insert(ctx, rewardEventsTable.Name,
		[]string{"sequence", "timestamp", "session_id", "kind", "item_id", "category", "reason"},
		[]any{seqNum, time.Now().UTC(), data.SessionID, data.Kind, data.ItemID, category, data.Reason},
	)
}

func (r *eventRepo) QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "session_id", "kind", "item_id", "category", "reason").
		From(entsql.Table(rewardEventsTable.Name))
	query, args := applyQueryOpts(sel, opts).Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query reward events: %w", err)
	}
	defer rows.Close()

	var records []RewardEventRecord
	for rows.Next() {
		var (
			rec      RewardEventRecord
			category sql.NullString
		)
		if err := rows.Scan(
			&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.Kind,
			&rec.ItemID, &category, &rec.Reason,
		); err != nil {
			return nil, fmt.Errorf("scan reward event: %w", err)
		}
		rec.Category = category.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
