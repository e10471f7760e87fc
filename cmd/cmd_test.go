package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/store"
)

func referenceAnswers(pick int) []string {
	var labels []string
	for _, q := range questionbank.Reference().Questions() {
		labels = append(labels, q.Options[pick].Label)
	}
	return labels
}

func TestParseAnswersFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"valid", "name: A\nemail: a@x\nrole: R\nanswers: [x, y]\n", ""},
		{"unknown key", "name: A\nscore: 5\n", "field score not found"},
		{"empty", "", "answers file is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parseAnswersFile([]byte(tt.input))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"x", "y"}, f.Answers)
		})
	}
}

func TestScoreAnswers(t *testing.T) {
	bank := questionbank.Reference()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	id := answersFile{Name: "Asha Rao", Email: "asha@example.com", Role: "SRE"}

	t.Run("complete", func(t *testing.T) {
		f := id
		f.Answers = referenceAnswers(2)
		ev, err := scoreAnswers(bank, f, now)
		require.NoError(t, err)
		assert.InDelta(t, 75.0, ev.Report.Aggregate, 1e-9)
		assert.Equal(t, scoring.Advance, ev.Report.Recommendation)
	})

	t.Run("blank answer is missing", func(t *testing.T) {
		f := id
		f.Answers = referenceAnswers(2)
		f.Answers[4] = ""
		_, err := scoreAnswers(bank, f, now)
		var se *scoring.Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, scoring.MissingAnswer, se.Kind)
		assert.Equal(t, 4, se.Index)
	})

	t.Run("extra answer rejected", func(t *testing.T) {
		f := id
		f.Answers = append(referenceAnswers(2), "bonus")
		_, err := scoreAnswers(bank, f, now)
		var se *scoring.Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, scoring.UnexpectedAnswer, se.Kind)
	})
}

func TestPrintBank(t *testing.T) {
	bank := questionbank.Reference()
	for _, format := range []string{"text", "yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printBank(&buf, bank, format))
			q, _ := bank.Question(0)
			assert.Contains(t, buf.String(), q.Options[0].Label)
		})
	}

	t.Run("yaml round trips", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printBank(&buf, bank, "yaml"))
		parsed, err := questionbank.Parse(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, bank.Questions(), parsed.Questions())
	})

	assert.Error(t, printBank(&bytes.Buffer{}, bank, "xml"))
}

func TestSummarizeUsage(t *testing.T) {
	events := []store.LLMEvent{
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "commentary", Model: "m2", InputTokens: 100, OutputTokens: 10, LatencyMs: 300}},
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "commentary", Model: "m1", InputTokens: 50, OutputTokens: 5, LatencyMs: 100}},
		{LLMRequestEventData: store.LLMRequestEventData{Purpose: "other", Model: "m1", InputTokens: 1, OutputTokens: 1, LatencyMs: 10}},
	}
	byPurpose, byModel := summarizeUsage(events)

	require.Len(t, byPurpose, 2)
	assert.Equal(t, usage{Key: "commentary", Calls: 2, InputTokens: 150, OutputTokens: 15, LatencyMs: 400}, byPurpose[0])
	require.Len(t, byModel, 2)
	assert.Equal(t, "m1", byModel[0].Key)
	assert.Equal(t, 2, byModel[0].Calls)

	var buf bytes.Buffer
	printUsage(&buf, events)
	assert.Contains(t, buf.String(), "TOTAL (partial)")
	assert.Contains(t, buf.String(), "Pricing unavailable for: m1, m2")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}

func TestScoreCommand_SavesAndLists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ETHIQ_CONFIG", "")
	t.Setenv("ETHIQ_ASSESSOR", "false")
	dir := t.TempDir()
	db := filepath.Join(dir, "ethiq.db")

	data, err := yaml.Marshal(answersFile{
		Name: "Asha Rao", Email: "asha@example.com", Role: "SRE",
		Answers: referenceAnswers(1),
	})
	require.NoError(t, err)
	answersPath := filepath.Join(dir, "answers.yaml")
	require.NoError(t, os.WriteFile(answersPath, data, 0o644))
	pdfPath := filepath.Join(dir, "out.pdf")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"score", "--answers", answersPath, "--db", db, "--save", "--pdf", pdfPath})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Average Score:   47.50")
	assert.Contains(t, out.String(), "Do Not Proceed")
	assert.Contains(t, out.String(), "Saved as ")
	assert.FileExists(t, pdfPath)

	st, err := store.OpenSQLite(context.Background(), db)
	require.NoError(t, err)
	defer st.Close()
	evs, err := st.EvaluationRepo().List(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "Asha Rao", evs[0].Identity.Name)

	var listed bytes.Buffer
	printEvaluations(&listed, evs)
	assert.Contains(t, listed.String(), evs[0].ID)
	assert.Contains(t, listed.String(), "47.50")
}
