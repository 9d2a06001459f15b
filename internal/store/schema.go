package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	kvKeyColumn = &schema.Column{Name: "item_key", Type: field.TypeString, Size: 255}

	kvTable = &schema.Table{
		Name: "kv_items",
		Columns: []*schema.Column{
			kvKeyColumn,
			{Name: "item_value", Type: field.TypeString, Size: 2147483647},
			{Name: "updated_at", Type: field.TypeTime},
		},
		PrimaryKey: []*schema.Column{kvKeyColumn},
	}

	answerIDColumn  = &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	answerSeqColumn = &schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}

	answerEventsTable = &schema.Table{
		Name: "answer_events",
		Columns: []*schema.Column{
			answerIDColumn,
			answerSeqColumn,
			{Name: "timestamp", Type: field.TypeTime},
			{Name: "session_id", Type: field.TypeString},
			{Name: "question_id", Type: field.TypeString},
			{Name: "category", Type: field.TypeString},
			{Name: "outcome", Type: field.TypeString},
			{Name: "points", Type: field.TypeInt},
			{Name: "correct", Type: field.TypeBool},
		},
		PrimaryKey: []*schema.Column{answerIDColumn},
	}

	rewardIDColumn  = &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	rewardSeqColumn = &schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}

	rewardEventsTable = &schema.Table{
		Name: "reward_events",
		Columns: []*schema.Column{
			rewardIDColumn,
			rewardSeqColumn,
			{Name: "timestamp", Type: field.TypeTime},
			{Name: "session_id", Type: field.TypeString},
			{Name: "kind", Type: field.TypeString},
			{Name: "item_id", Type: field.TypeString},
			{Name: "category", Type: field.TypeString, Nullable: true},
			{Name: "reason", Type: field.TypeString},
		},
		PrimaryKey: []*schema.Column{rewardIDColumn},
	}

	tables = []*schema.Table{kvTable, answerEventsTable, rewardEventsTable}
)

func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
