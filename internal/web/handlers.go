package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/session"
)

const commentaryTimeout = 90 * time.Second

type page struct {
	Title    string
	Warning  string
	Identity session.Identity
}

type questionView struct {
	Index    int
	Number   int
	Prompt   string
	Labels   []string
	Selected string
	Invalid  bool
}

type questionnairePage struct {
	page
	Questions []questionView
}

type resultsPage struct {
	page
	ChartTitle     string
	Rows           []report.Row
	Average        string
	Recommendation string
	Commentary     *report.Commentary
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("web: render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := page{Title: "Start"}
	if claims, err := s.cookies.read(r); err == nil {
		data.Identity = claims.Identity
	}
	s.render(w, http.StatusOK, "index.html", data)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	id := session.Identity{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Role:  r.PostFormValue("role"),
	}.Normalize()
	if err := id.Validate(); err != nil {
		s.render(w, http.StatusBadRequest, "index.html", page{Title: "Start", Warning: err.Error(), Identity: id})
		return
	}

	claims := &respondentClaims{Identity: id, StartedAt: s.now().UnixMilli()}
	if err := s.cookies.write(w, claims); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/questionnaire", http.StatusSeeOther)
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	claims, err := s.cookies.read(r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if claims.submitted() {
		http.Redirect(w, r, "/results", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "questionnaire.html", s.questionnaire(claims, nil))
}

func (s *Server) questionnaire(claims *respondentClaims, problem *scoring.Error) questionnairePage {
	data := questionnairePage{page: page{Title: "Questionnaire", Identity: claims.Identity}}
	for i, q := range s.bank.Questions() {
		data.Questions = append(data.Questions, questionView{
			Index:    i,
			Number:   i + 1,
			Prompt:   q.Prompt,
			Labels:   q.Labels(),
			Selected: claims.Answers[i],
			Invalid:  problem != nil && problem.Index == i,
		})
	}
	if problem != nil {
		data.Warning = describe(problem)
	}
	return data
}

func describe(e *scoring.Error) string {
	switch e.Kind {
	case scoring.MissingAnswer:
		return fmt.Sprintf("Please answer question %d before submitting.", e.Index+1)
	case scoring.UnknownOption:
		return fmt.Sprintf("Question %d has an invalid choice; please pick one of the listed options.", e.Index+1)
	default:
		return "Your answers do not match this questionnaire; please start over."
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	claims, err := s.cookies.read(r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if claims.submitted() {
		http.Redirect(w, r, "/results", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	answers := scoring.AnswerSet{}
	for i := range s.bank.Len() {
		if v := r.PostFormValue("q_" + strconv.Itoa(i)); v != "" {
			answers.Set(i, v)
		}
	}
	claims.Answers = answers

	started := time.UnixMilli(claims.StartedAt)
	ev, err := session.Evaluate(s.bank, claims.Identity, answers, started, s.now())
	if err != nil {
		var se *scoring.Error
		if !errors.As(err, &se) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Keep what was answered so the form re-renders filled in.
		if err := s.cookies.write(w, claims); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.render(w, http.StatusBadRequest, "questionnaire.html", s.questionnaire(claims, se))
		return
	}

	claims.EvaluationID = ev.ID
	claims.CompletedAt = ev.CompletedAt.UnixMilli()
	if err := s.cookies.write(w, claims); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.persist(r.Context(), ev)
	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

// persist saves ev and schedules commentary. Storage problems are logged
// and never block the respondent.
func (s *Server) persist(ctx context.Context, ev *session.Evaluation) {
	if s.evaluations == nil {
		return
	}
	if err := s.evaluations.Save(ctx, ev, nil); err != nil {
		log.Printf("web: save evaluation %s: %v", ev.ID, err)
		return
	}
	if s.commentator == nil {
		return
	}

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commentaryTimeout)
		defer cancel()

		c, err := s.commentator.Comment(ctx, ev)
		if err != nil {
			log.Printf("web: commentary for %s: %v", ev.ID, err)
			return
		}
		if err := s.evaluations.SetCommentary(ctx, ev.ID, c); err != nil {
			log.Printf("web: save commentary for %s: %v", ev.ID, err)
		}
	}()
}

// evaluation rebuilds the finalized evaluation from the cookie. Scoring is
// pure, so the result matches what was computed at submit time.
func (s *Server) evaluation(r *http.Request) (*session.Evaluation, error) {
	claims, err := s.cookies.read(r)
	if err != nil {
		return nil, err
	}
	if !claims.submitted() {
		return nil, errNoSession
	}
	rep, err := scoring.Score(s.bank, claims.Answers)
	if err != nil {
		return nil, err
	}
	return &session.Evaluation{
		ID:          claims.EvaluationID,
		Identity:    claims.Identity,
		Answers:     claims.Answers,
		Report:      rep,
		StartedAt:   time.UnixMilli(claims.StartedAt).UTC(),
		CompletedAt: time.UnixMilli(claims.CompletedAt).UTC(),
	}, nil
}

func (s *Server) commentary(ctx context.Context, id string) *report.Commentary {
	if s.evaluations == nil {
		return nil
	}
	stored, err := s.evaluations.Get(ctx, id)
	if err != nil {
		log.Printf("web: load evaluation %s: %v", id, err)
		return nil
	}
	if stored == nil {
		return nil
	}
	return stored.Commentary
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	ev, err := s.evaluation(r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "results.html", resultsPage{
		page:           page{Title: "Results", Identity: ev.Identity},
		ChartTitle:     report.ChartTitle,
		Rows:           report.Table(ev),
		Average:        report.FormatAggregate(ev),
		Recommendation: ev.Report.Recommendation.Text(),
		Commentary:     s.commentary(r.Context(), ev.ID),
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ev, err := s.evaluation(r)
	if err != nil {
		http.Error(w, "no results", http.StatusNotFound)
		return
	}
	png, err := report.Chart(ev)
	if err != nil {
		if errors.Is(err, report.ErrEmptyChart) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	ev, err := s.evaluation(r)
	if err != nil {
		http.Error(w, "no results", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, ev, s.commentary(r.Context(), ev.ID)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(report.FileName(ev.Identity)))
	buf.WriteTo(w)
}

// attachment formats a Content-Disposition value. Non-ASCII names are sent
// in the RFC 2231 extended form.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.cookies.clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
