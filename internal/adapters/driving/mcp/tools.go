package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// StaleSourcesInput is the input schema for the list_stale_sources tool.
type StaleSourcesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of sources to return (default all)"`
}

// StaleSourcesOutput is the output schema for the list_stale_sources tool.
type StaleSourcesOutput struct {
	Sources []SourceInfo `json:"sources"`
	Count   int          `json:"count"`
}

// SourceInfo represents one tracked web source.
type SourceInfo struct {
	URL          string  `json:"url"`
	Status       string  `json:"status"`
	Frequency    string  `json:"frequency"`
	LastScraped  string  `json:"last_scraped,omitempty"`
	QualityScore float64 `json:"quality_score,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// ReportScrapeInput is the input schema for the report_scrape tool.
type ReportScrapeInput struct {
	URL          string  `json:"url" jsonschema:"the URL the scraper fetched"`
	Content      string  `json:"content" jsonschema:"the extracted page text"`
	Title        string  `json:"title,omitempty" jsonschema:"the page title"`
	QualityScore float64 `json:"quality_score,omitempty" jsonschema:"content quality score in [0,1]"`
	Ingest       bool    `json:"ingest,omitempty" jsonschema:"also chunk the content into the collection"`
}

// ReportScrapeOutput is the output schema for the report_scrape tool.
type ReportScrapeOutput struct {
	URL         string `json:"url"`
	Status      string `json:"status"`
	HighQuality bool   `json:"high_quality"`
	ChunkCount  int    `json:"chunk_count,omitempty"`
}

// ReportFailureInput is the input schema for the report_scrape_failure tool.
type ReportFailureInput struct {
	URL   string `json:"url" jsonschema:"the URL the scraper tried to fetch"`
	Error string `json:"error" jsonschema:"what went wrong"`
}

// ReportFailureOutput is the output schema for the report_scrape_failure tool.
type ReportFailureOutput struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// IngestTextInput is the input schema for the ingest_text tool.
type IngestTextInput struct {
	Source string `json:"source" jsonschema:"the file path or URL the text came from"`
	Text   string `json:"text" jsonschema:"the extracted text to chunk"`
}

// IngestTextOutput is the output schema for the ingest_text tool.
type IngestTextOutput struct {
	ChunkIDs []string `json:"chunk_ids"`
	Count    int      `json:"count"`
}

// SessionWindowInput is the input schema for the session_window tool.
type SessionWindowInput struct {
	SessionID string `json:"session_id" jsonschema:"the conversation session to read"`
}

// SessionWindowOutput is the output schema for the session_window tool.
type SessionWindowOutput struct {
	Messages []MessageInfo `json:"messages"`
	Count    int           `json:"count"`
}

// MessageInfo represents one message in a context window.
type MessageInfo struct {
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Timestamp string   `json:"timestamp"`
	Sources   []string `json:"sources,omitempty"`
}

// AssembleInput is the input schema for the assemble_context tool.
type AssembleInput struct {
	Hits []HitInput `json:"hits" jsonschema:"raw similarity hits from the vector index"`
}

// HitInput is one raw index hit.
type HitInput struct {
	ChunkID string  `json:"chunk_id" jsonschema:"the chunk the index matched"`
	Score   float64 `json:"score" jsonschema:"the similarity score in [0,1]"`
}

// AssembleOutput is the output schema for the assemble_context tool.
type AssembleOutput struct {
	Results []ResultInfo `json:"results"`
	Count   int          `json:"count"`
}

// ResultInfo represents a single assembled search result.
type ResultInfo struct {
	ChunkID   string  `json:"chunk_id"`
	Source    string  `json:"source"`
	Score     float64 `json:"score"`
	Relevance string  `json:"relevance"`
	Content   string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_stale_sources",
		Description: "List web sources due for a re-fetch, in scrape order",
	}, s.handleListStaleSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "report_scrape",
		Description: "Record a successful scrape outcome for a tracked source",
	}, s.handleReportScrape)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "report_scrape_failure",
		Description: "Record a failed scrape attempt for a tracked source",
	}, s.handleReportScrapeFailure)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_text",
		Description: "Chunk extracted text into the content collection",
	}, s.handleIngestText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "session_window",
		Description: "Read the recent-message context window of a conversation session",
	}, s.handleSessionWindow)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "assemble_context",
		Description: "Assemble raw vector index hits into classified search results",
	}, s.handleAssembleContext)
}

// handleListStaleSources handles the list_stale_sources tool invocation.
func (s *Server) handleListStaleSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StaleSourcesInput,
) (*mcp.CallToolResult, StaleSourcesOutput, error) {
	plan, err := s.ports.Source.RefreshPlan(ctx)
	if err != nil {
		return nil, StaleSourcesOutput{}, err
	}

	if input.Limit > 0 && len(plan) > input.Limit {
		plan = plan[:input.Limit]
	}

	output := StaleSourcesOutput{
		Sources: make([]SourceInfo, len(plan)),
		Count:   len(plan),
	}
	for i, src := range plan {
		output.Sources[i] = sourceInfo(src)
	}

	return nil, output, nil
}

// sourceInfo flattens a web source for tool output.
func sourceInfo(src *domain.WebSource) SourceInfo {
	info := SourceInfo{
		URL:          src.URL,
		Status:       src.Status.Label(),
		Frequency:    src.Frequency.String(),
		QualityScore: src.QualityScore,
		Error:        src.ErrorMessage,
	}
	if src.LastScraped != nil {
		info.LastScraped = src.LastScraped.Format("2006-01-02 15:04:05")
	}
	return info
}

// handleReportScrape handles the report_scrape tool invocation.
func (s *Server) handleReportScrape(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReportScrapeInput,
) (*mcp.CallToolResult, ReportScrapeOutput, error) {
	if input.Ingest && s.ports.Ingest == nil {
		return nil, ReportScrapeOutput{}, errors.New("ingest service not available")
	}

	source, err := s.ports.Source.MarkScraped(ctx, input.URL, input.Content, input.Title, input.QualityScore)
	if err != nil {
		return nil, ReportScrapeOutput{}, err
	}

	output := ReportScrapeOutput{
		URL:         source.URL,
		Status:      source.Status.Label(),
		HighQuality: source.IsHighQuality(),
	}

	// Excluded sources ignore scrape outcomes, so nothing is chunked.
	if input.Ingest && source.Status == domain.StatusScraped {
		chunks, err := s.ports.Ingest.IngestText(ctx, input.URL, input.Content,
			domain.WithChunkType(domain.DocumentTypeWeb),
			domain.WithChunkSource(domain.ContentSourceWebScrape))
		if err != nil {
			return nil, ReportScrapeOutput{}, err
		}
		output.ChunkCount = len(chunks)
	}

	return nil, output, nil
}

// handleReportScrapeFailure handles the report_scrape_failure tool invocation.
func (s *Server) handleReportScrapeFailure(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReportFailureInput,
) (*mcp.CallToolResult, ReportFailureOutput, error) {
	source, err := s.ports.Source.MarkFailed(ctx, input.URL, input.Error)
	if err != nil {
		return nil, ReportFailureOutput{}, err
	}

	return nil, ReportFailureOutput{
		URL:    source.URL,
		Status: source.Status.Label(),
	}, nil
}

// handleIngestText handles the ingest_text tool invocation.
func (s *Server) handleIngestText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestTextInput,
) (*mcp.CallToolResult, IngestTextOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestTextOutput{}, errors.New("ingest service not available")
	}

	chunks, err := s.ports.Ingest.IngestText(ctx, input.Source, input.Text)
	if err != nil {
		return nil, IngestTextOutput{}, err
	}

	output := IngestTextOutput{
		ChunkIDs: make([]string, len(chunks)),
		Count:    len(chunks),
	}
	for i := range chunks {
		output.ChunkIDs[i] = chunks[i].ID
	}

	return nil, output, nil
}

// handleSessionWindow handles the session_window tool invocation.
func (s *Server) handleSessionWindow(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SessionWindowInput,
) (*mcp.CallToolResult, SessionWindowOutput, error) {
	if s.ports.Session == nil {
		return nil, SessionWindowOutput{}, errors.New("session service not available")
	}

	window, err := s.ports.Session.Window(ctx, input.SessionID)
	if err != nil {
		return nil, SessionWindowOutput{}, err
	}

	output := SessionWindowOutput{
		Messages: make([]MessageInfo, len(window)),
		Count:    len(window),
	}
	for i := range window {
		output.Messages[i] = MessageInfo{
			Role:      window[i].Role.String(),
			Content:   window[i].Content,
			Timestamp: window[i].Timestamp.Format("2006-01-02 15:04:05"),
			Sources:   window[i].Sources,
		}
	}

	return nil, output, nil
}

// handleAssembleContext handles the assemble_context tool invocation.
func (s *Server) handleAssembleContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssembleInput,
) (*mcp.CallToolResult, AssembleOutput, error) {
	if s.ports.Retrieval == nil {
		return nil, AssembleOutput{}, errors.New("retrieval service not available")
	}

	hits := make([]domain.ScoredHit, len(input.Hits))
	for i, hit := range input.Hits {
		hits[i] = domain.ScoredHit{ChunkID: hit.ChunkID, Score: hit.Score}
	}

	results, err := s.ports.Retrieval.Assemble(ctx, hits)
	if err != nil {
		return nil, AssembleOutput{}, err
	}

	output := AssembleOutput{
		Results: make([]ResultInfo, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = ResultInfo{
			ChunkID:   results[i].ChunkID,
			Source:    results[i].Source,
			Score:     results[i].Score,
			Relevance: results[i].RelevanceLevel().String(),
			Content:   results[i].Content,
		}
	}

	return nil, output, nil
}
