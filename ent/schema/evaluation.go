package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Evaluation is one finalized questionnaire. Timestamps are Unix
// milliseconds so SQLite and Postgres sort them the same way.
type Evaluation struct {
	ent.Schema
}

func (Evaluation) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "evaluations"},
	}
}

func (Evaluation) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID assigned when the session is finalized"),
		field.String("name"),
		field.String("email"),
		field.String("role").
			Comment("Role applied for; history can be filtered by it"),
		field.Int64("total").
			Comment("Sum of the values of every answered question"),
		field.Int("question_count"),
		field.Float("aggregate").
			Comment("total / question_count"),
		field.String("recommendation").
			Comment("ADVANCE or REJECT"),
		field.Text("answers_json").
			Comment("Chosen labels keyed by question index"),
		field.Text("report_json").
			Comment("Full scoring report including the per-question trace"),
		field.Text("commentary_json").
			Default("").
			Comment("Assessor notes, empty until produced"),
		field.Int64("started_at"),
		field.Int64("completed_at"),
	}
}

func (Evaluation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("completed_at"),
	}
}
