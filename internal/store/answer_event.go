package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	return r.insert(ctx, answerEventsTable.Name,
		[]string{"sequence", "timestamp", "session_id", "question_id", "category", "outcome", "points", "correct"},
		[]any{seqNum, time.Now().UTC(), data.SessionID, data.QuestionID, data.Category, data.Outcome, data.Points, data.Correct},
	)
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "session_id", "question_id", "category", "outcome", "points", "correct").
		From(entsql.Table(answerEventsTable.Name))
	query, args := applyQueryOpts(sel, opts).Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var records []AnswerEventRecord
	for rows.Next() {
		var rec AnswerEventRecord
		if err := rows.Scan(
			&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.QuestionID,
			&rec.Category, &rec.Outcome, &rec.Points, &rec.Correct,
		); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
