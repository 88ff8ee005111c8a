package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/capability"
	"github.com/fyrsmithlabs/briefd/internal/llm"
)

const webSearchPrompt = `You are a web search assistant. Your task is to generate realistic and relevant web search results based on a given query.

You will be given:
1. A search query - the text the user wants to search for

Your job is to:
- Generate a list of relevant web search results that would appear for this query
- Each result must include:
  * title: A descriptive title that matches the query intent
  * url: A realistic URL that corresponds to the content
  * snippet: A snippet (2-3 sentences) summarizing what the page contains
- Results should be diverse and cover different aspects or perspectives related to the query
- Prioritize authoritative sources, official websites, and reputable information sources
- Order results by relevance, with the most relevant appearing first
- Generate between 3-10 results depending on the query complexity

Query:
%s`

// SearchResult is one entry in a search response.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchResults is the web_search capability's result.
type SearchResults struct {
	Results []SearchResult `json:"results"`
}

// WebSearcher synthesizes search results via the model collaborator.
// There is no live web access; the collaborator stands in for a search
// backend behind the same capability contract.
type WebSearcher struct {
	client llm.Client
	logger *zap.Logger
}

// NewWebSearcher creates a web search agent.
func NewWebSearcher(client llm.Client, logger *zap.Logger) *WebSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSearcher{client: client, logger: logger.Named("web_search")}
}

// Search returns synthesized results for the query.
func (w *WebSearcher) Search(ctx context.Context, query string) (*SearchResults, error) {
	w.logger.Info("performing web search", zap.String("query", query))

	prompt := fmt.Sprintf(webSearchPrompt, query)
	results, err := llm.GenerateStructured[SearchResults](ctx, w.client, prompt, llm.WithTemperature(0.7))
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	w.logger.Info("search completed", zap.Int("results", len(results.Results)))
	return &results, nil
}

// Descriptor returns the capability descriptor with the invocation
// handle bound.
func (w *WebSearcher) Descriptor() capability.Descriptor {
	return capability.Descriptor{
		Name:        "web_search",
		Description: "Search the web for information about a company or topic. Returns a list of search results with titles, URLs, and snippets.",
		Kind:        capability.KindAgent,
		Parameters: []capability.Parameter{
			{Name: "query", Type: capability.TypeString, Description: "The search query to execute", Required: true},
		},
		Handler: capability.HandlerFunc(func(ctx context.Context, args map[string]any) (map[string]any, error) {
			query, err := stringArg(args, "query")
			if err != nil {
				return nil, err
			}
			results, err := w.Search(ctx, query)
			if err != nil {
				return nil, err
			}
			return toMap(results)
		}),
		Metadata: map[string]any{"agent_type": "search"},
	}
}
