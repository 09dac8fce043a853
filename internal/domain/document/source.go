package document

import "context"

// Endpoint is a provider resource path relative to the API base URL.
type Endpoint string

const (
	EndpointSearch            Endpoint = "search"
	EndpointClubSquad         Endpoint = "clubs/get-squad"
	EndpointPerformanceDetail Endpoint = "players/get-performance-detail"
	EndpointMarketValue       Endpoint = "players/get-market-value"
)

// Source fetches raw documents from the statistics provider.
type Source interface {
	Fetch(ctx context.Context, endpoint Endpoint, params map[string]string) (Raw, error)
}
