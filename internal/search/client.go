package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/call"
	algolia "github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/algolia/algoliasearch-client-go/v4/algolia/transport"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"moviesearch/internal/domain"
)

// Searcher sends one query to one index and returns the first batch of hits
type Searcher interface {
	Search(ctx context.Context, index, query string) ([]domain.Hit, error)
}

// Options configures a Client
type Options struct {
	Host        string // base URL such as https://APPID-dsn.algolia.net
	AppID       string
	APIKey      string
	HitsPerPage int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client queries an Algolia-compatible index through the Algolia API client,
// pinned to a single host
type Client struct {
	api         *algolia.APIClient
	hitsPerPage int
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClient creates a search client
func NewClient(opts Options) (*Client, error) {
	host, err := url.Parse(opts.Host)
	if err != nil || host.Host == "" {
		return nil, fmt.Errorf("invalid search host %q", opts.Host)
	}
	scheme := host.Scheme
	if scheme == "" {
		scheme = "https"
	}

	api, err := algolia.NewClientWithConfig(algolia.SearchConfiguration{
		Configuration: transport.Configuration{
			AppID:  opts.AppID,
			ApiKey: opts.APIKey,
			Hosts: []transport.StatefulHost{
				transport.NewStatefulHost(scheme, host.Host, call.IsReadWrite),
			},
			// one token per process groups a session's queries in analytics
			DefaultHeader:  map[string]string{"X-Algolia-UserToken": uuid.NewString()},
			ConnectTimeout: opts.Timeout,
			ReadTimeout:    opts.Timeout,
			WriteTimeout:   opts.Timeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api:         api,
		hitsPerPage: opts.HitsPerPage,
		timeout:     opts.Timeout,
		logger:      logger.Named("search"),
	}, nil
}

// Search implements Searcher
func (c *Client) Search(ctx context.Context, index, query string) ([]domain.Hit, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := algolia.NewEmptySearchForHits().SetIndexName(index).SetQuery(query)
	if c.hitsPerPage > 0 {
		params.SetHitsPerPage(int32(c.hitsPerPage))
	}
	req := c.api.NewApiSearchRequest(
		algolia.NewEmptySearchMethodParams().SetRequests([]algolia.SearchQuery{
			*algolia.SearchForHitsAsSearchQuery(params),
		}),
	)

	start := time.Now()
	res, err := c.api.Search(req, algolia.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	// Only the first batch is used; a request for one index yields one batch
	var hits []domain.Hit
	if len(res.Results) > 0 {
		batch := res.Results[0].SearchResponse
		if batch == nil {
			return nil, fmt.Errorf("%w: first result carries no hits", ErrMalformedResponse)
		}
		if hits, err = toHits(batch.Hits); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("search completed",
		zap.String("index", index),
		zap.String("query", query),
		zap.Int("hits", len(hits)),
		zap.Duration("took", time.Since(start)),
	)
	return hits, nil
}

// toHits flattens typed hits back into plain records so title expressions
// and the detail view see every attribute the index stores
func toHits(in []algolia.Hit) ([]domain.Hit, error) {
	hits := make([]domain.Hit, 0, len(in))
	for i := range in {
		raw, err := json.Marshal(&in[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		var hit domain.Hit
		if err := json.Unmarshal(raw, &hit); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
