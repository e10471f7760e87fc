package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/session"
)

type evaluationRepo struct {
	s *Store
}

func (r *evaluationRepo) Save(ctx context.Context, ev *session.Evaluation, commentary *report.Commentary) error {
	answers, err := json.Marshal(ev.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	rep, err := json.Marshal(ev.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	comm, err := marshalCommentary(commentary)
	if err != nil {
		return err
	}

	ins := r.s.builder().Insert(tableEvaluations).
		Columns("id", "name", "email", "role", "total", "question_count", "aggregate",
			"recommendation", "answers_json", "report_json", "commentary_json",
			"started_at", "completed_at").
		Values(ev.ID, ev.Identity.Name, ev.Identity.Email, ev.Identity.Role,
			ev.Report.Total, ev.Report.Count, ev.Report.Aggregate,
			ev.Report.Recommendation.String(), string(answers), string(rep), comm,
			ev.StartedAt.UnixMilli(), ev.CompletedAt.UnixMilli())
	if err := r.s.exec(ctx, ins); err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepo) SetCommentary(ctx context.Context, id string, commentary *report.Commentary) error {
	comm, err := marshalCommentary(commentary)
	if err != nil {
		return err
	}
	upd := r.s.builder().Update(tableEvaluations).
		Set("commentary_json", comm).
		Where(entsql.EQ("id", id))
	if err := r.s.exec(ctx, upd); err != nil {
		return fmt.Errorf("update commentary: %w", err)
	}
	return nil
}

func (r *evaluationRepo) Get(ctx context.Context, id string) (*StoredEvaluation, error) {
	sel := r.s.builder().
		Select("id", "name", "email", "role", "answers_json", "report_json",
			"commentary_json", "started_at", "completed_at").
		From(r.s.builder().Table(tableEvaluations)).
		Where(entsql.EQ("id", id))

	var rows entsql.Rows
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("query evaluation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var (
		ev                     session.Evaluation
		answers, rep, comm     string
		startedAt, completedAt int64
	)
	if err := rows.Scan(&ev.ID, &ev.Identity.Name, &ev.Identity.Email, &ev.Identity.Role,
		&answers, &rep, &comm, &startedAt, &completedAt); err != nil {
		return nil, fmt.Errorf("scan evaluation: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &ev.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	ev.Report = &scoring.Report{}
	if err := json.Unmarshal([]byte(rep), ev.Report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	ev.StartedAt = time.UnixMilli(startedAt).UTC()
	ev.CompletedAt = time.UnixMilli(completedAt).UTC()

	out := &StoredEvaluation{Evaluation: &ev}
	if comm != "" {
		out.Commentary = &report.Commentary{}
		if err := json.Unmarshal([]byte(comm), out.Commentary); err != nil {
			return nil, fmt.Errorf("unmarshal commentary: %w", err)
		}
	}
	return out, nil
}

func (r *evaluationRepo) List(ctx context.Context, opts QueryOpts) ([]EvaluationSummary, error) {
	sel := r.s.builder().
		Select("id", "name", "email", "role", "aggregate", "recommendation", "completed_at").
		From(r.s.builder().Table(tableEvaluations)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))

	var preds []*entsql.Predicate
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("completed_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("completed_at", opts.To.UnixMilli()))
	}
	if opts.Role != "" {
		preds = append(preds, entsql.EQ("role", opts.Role))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows entsql.Rows
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var out []EvaluationSummary
	for rows.Next() {
		var (
			e           EvaluationSummary
			rec         string
			completedAt int64
		)
		if err := rows.Scan(&e.ID, &e.Identity.Name, &e.Identity.Email, &e.Identity.Role,
			&e.Aggregate, &rec, &completedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		if err := e.Recommendation.UnmarshalText([]byte(rec)); err != nil {
			return nil, err
		}
		e.CompletedAt = time.UnixMilli(completedAt).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *evaluationRepo) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	sel := r.s.builder().
		Select("id").
		From(r.s.builder().Table(tableEvaluations)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))

	var rows entsql.Rows
	if err := r.s.query(ctx, sel, &rows); err != nil {
		return 0, fmt.Errorf("list evaluation ids: %w", err)
	}
	var ids []any
	for n := 0; rows.Next(); n++ {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan evaluation id: %w", err)
		}
		if n >= keep {
			ids = append(ids, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	if len(ids) == 0 {
		return 0, nil
	}
	del := r.s.builder().Delete(tableEvaluations).Where(entsql.In("id", ids...))
	if err := r.s.exec(ctx, del); err != nil {
		return 0, fmt.Errorf("prune evaluations: %w", err)
	}
	return len(ids), nil
}

func marshalCommentary(c *report.Commentary) (string, error) {
	if c.Empty() {
		return "", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal commentary: %w", err)
	}
	return string(b), nil
}
