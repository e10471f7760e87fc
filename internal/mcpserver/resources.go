package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/ethiq/internal/questionbank"
)

// BankURI addresses the active question bank.
const BankURI = "ethiq://questionbank"

// BankResource serves the active question bank as JSON.
type BankResource struct {
	bank *questionbank.Bank
}

// NewBankResource creates a BankResource.
func NewBankResource(bank *questionbank.Bank) *BankResource {
	return &BankResource{bank: bank}
}

// Definition returns the MCP resource definition.
func (r *BankResource) Definition() mcp.Resource {
	return mcp.NewResource(
		BankURI,
		"Question bank",
		mcp.WithResourceDescription("Questions, dimensions and option values used for scoring"),
		mcp.WithMIMEType("application/json"),
	)
}

// Handle returns the bank as JSON.
func (r *BankResource) Handle(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(questionbank.File{Questions: r.bank.Questions()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling question bank: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
