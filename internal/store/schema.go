package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	sessionEventsTable = "session_events"
	answerEventsTable  = "answer_events"
	submissionsTable   = "submissions"
)

var (
	// sessionEventColumns: session lifecycle events (start, end, abandon).
	sessionEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString, Default: ""},
		{Name: "mode", Type: field.TypeString, Default: ""},
		{Name: "grade", Type: field.TypeInt, Default: 0},
		{Name: "questions_served", Type: field.TypeInt, Default: 0},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	}
	sessionEvents = &schema.Table{
		Name:       sessionEventsTable,
		Columns:    sessionEventColumns,
		PrimaryKey: []*schema.Column{sessionEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_session_id", Columns: []*schema.Column{sessionEventColumns[3]}},
			{Name: "sessionevent_timestamp", Columns: []*schema.Column{sessionEventColumns[2]}},
		},
	}

	// answerEventColumns: one row per evaluated question.
	answerEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "partial", Type: field.TypeFloat64},
		{Name: "points", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeBool},
		{Name: "timed_out", Type: field.TypeBool},
		{Name: "time_ms", Type: field.TypeInt64},
	}
	answerEvents = &schema.Table{
		Name:       answerEventsTable,
		Columns:    answerEventColumns,
		PrimaryKey: []*schema.Column{answerEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerevent_session_id", Columns: []*schema.Column{answerEventColumns[3]}},
		},
	}

	// submissionColumns: the latest submission per (user_id, mode, item_id).
	submissionColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "total_possible", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "submitted_at", Type: field.TypeTime},
	}
	submissions = &schema.Table{
		Name:       submissionsTable,
		Columns:    submissionColumns,
		PrimaryKey: []*schema.Column{submissionColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "submission_user_id_mode_item_id",
				Unique:  true,
				Columns: []*schema.Column{submissionColumns[2], submissionColumns[3], submissionColumns[4]},
			},
			{Name: "submission_submitted_at", Columns: []*schema.Column{submissionColumns[9]}},
		},
	}

	// Tables lists every table managed by auto-migration.
	Tables = []*schema.Table{sessionEvents, answerEvents, submissions}
)
