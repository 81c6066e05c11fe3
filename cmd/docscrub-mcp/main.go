package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/docscrub/models"
)

func main() {
	apiURL := os.Getenv("DOCSCRUB_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("DOCSCRUB_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "DOCSCRUB_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"docscrub",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	cleanHTMLTool := mcp.NewTool("clean_html",
		mcp.WithDescription("Clean an HTML document: strip boilerplate (navigation, ads, social widgets, scripts) and normalize loose text into paragraphs. Returns markdown, text or html."),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("The raw HTML document to clean"),
		),
		mcp.WithString("url",
			mcp.Description("Source URL of the document, used to resolve relative links"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'markdown' (default), 'text' (plain text), or 'html'"),
			mcp.Enum("markdown", "text", "html"),
		),
		mcp.WithString("extract_mode",
			mcp.Description("'none' (default, whole normalized body) or 'readability' (main article only)"),
			mcp.Enum("none", "readability"),
		),
	)
	s.AddTool(cleanHTMLTool, handleCleanHTML(apiURL, apiKey))

	batchCleanTool := mcp.NewTool("batch_clean_html",
		mcp.WithDescription("Clean several HTML documents in one call. Results are returned in input order."),
		mcp.WithArray("documents",
			mcp.Required(),
			mcp.Description("List of raw HTML documents"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'markdown' (default), 'text', or 'html'"),
			mcp.Enum("markdown", "text", "html"),
		),
	)
	s.AddTool(batchCleanTool, handleBatchClean(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the docscrub API and decodes the JSON
// response into out.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

func errorText(e *models.ErrorDetail, fallback string) string {
	if e == nil {
		return fallback
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func handleCleanHTML(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawHTML, err := request.RequireString("html")
		if err != nil {
			return mcp.NewToolResultError("html is required"), nil
		}

		reqBody := models.CleanRequest{
			HTML:         rawHTML,
			URL:          request.GetString("url", ""),
			OutputFormat: request.GetString("output_format", ""),
			ExtractMode:  request.GetString("extract_mode", ""),
		}

		var cleanResp models.CleanResponse
		if err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/clean", reqBody, &cleanResp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !cleanResp.Success {
			return mcp.NewToolResultError(errorText(cleanResp.Error, "clean failed")), nil
		}

		// Build result with metadata header
		var result string
		if m := cleanResp.Metadata; m.Title != "" {
			result = fmt.Sprintf("Title: %s\n\n", m.Title)
		}
		result += cleanResp.Content

		t := cleanResp.Tokens
		result += fmt.Sprintf("\n\n---\nTokens: %d (saved %.0f%% from original %d)",
			t.CleanedEstimate, t.SavingsPercent, t.OriginalEstimate)

		return mcp.NewToolResultText(result), nil
	}
}

func handleBatchClean(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 300 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docs, err := request.RequireStringSlice("documents")
		if err != nil {
			return mcp.NewToolResultError("documents is required and must be an array of strings"), nil
		}
		outputFormat := request.GetString("output_format", "")

		payload := models.BatchCleanRequest{Documents: make([]models.CleanRequest, len(docs))}
		for i, d := range docs {
			payload.Documents[i] = models.CleanRequest{HTML: d, OutputFormat: outputFormat}
		}

		var batchResp models.BatchCleanResponse
		if err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/clean/batch", payload, &batchResp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if batchResp.Error != nil {
			return mcp.NewToolResultError(errorText(batchResp.Error, "batch failed")), nil
		}

		// Format results.
		var sb strings.Builder
		fmt.Fprintf(&sb, "Batch: %d/%d cleaned\n\n", batchResp.Succeeded, batchResp.Total)
		for i, r := range batchResp.Results {
			if r == nil {
				continue
			}
			switch {
			case r.Success && r.DuplicateOf != nil:
				fmt.Fprintf(&sb, "--- [%d] near duplicate of [%d] ---\n\n", i+1, *r.DuplicateOf+1)
			case r.Success:
				fmt.Fprintf(&sb, "--- [%d] ---\n%s\n\n", i+1, r.Content)
			default:
				fmt.Fprintf(&sb, "--- [%d] FAILED: %s ---\n\n", i+1, errorText(r.Error, "unknown error"))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
