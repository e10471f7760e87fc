// Package mcpserver exposes the question bank and the scoring engine to
// MCP hosts over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/store"
)

// New builds the MCP server. evaluations may be nil.
func New(version string, bank *questionbank.Bank, evaluations store.EvaluationRepo) *server.MCPServer {
	s := server.NewMCPServer(
		"ethiq",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)

	questions := NewQuestionsTool(bank)
	s.AddTool(questions.Definition(), questions.Handle)

	score := NewScoreTool(bank, evaluations)
	s.AddTool(score.Definition(), score.Handle)

	res := NewBankResource(bank)
	s.AddResource(res.Definition(), res.Handle)

	return s
}

// Serve runs s on stdin/stdout until the host disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `ethiq scores candidates on behaviour and work ethics.
Call list_questions first, collect one answer per question using the exact option labels, then call score_answers.
The recommendation is derived from the average score and must not be overridden.`
