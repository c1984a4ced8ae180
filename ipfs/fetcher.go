package ipfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/0xAtelerix/talentgraph/library"
	"github.com/0xAtelerix/talentgraph/metrics"
)

// Fetcher retrieves the bytes of a document by CID.
type Fetcher interface {
	Fetch(ctx context.Context, cid string) ([]byte, error)
}

const DefaultMaxDocumentSize = 1 << 20

// GatewayFetcher reads documents from an HTTP IPFS gateway: GET <base>/ipfs/<cid>.
type GatewayFetcher struct {
	base       string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxSize    int64
}

func NewGatewayFetcher(base string, rps float64, burst int, timeout time.Duration, maxSize int64) *GatewayFetcher {
	if maxSize <= 0 {
		maxSize = DefaultMaxDocumentSize
	}

	return &GatewayFetcher{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		maxSize:    maxSize,
	}
}

func (g *GatewayFetcher) Fetch(ctx context.Context, cid string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.DocumentFetchDuration.WithLabelValues("gateway").Observe(time.Since(start).Seconds())
	}()

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/ipfs/"+cid, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", library.ErrFetchFailed, cid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: http status %d", library.ErrFetchFailed, cid, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", library.ErrFetchFailed, cid, err)
	}

	if int64(len(body)) > g.maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", library.ErrDocumentTooLarge, cid, g.maxSize)
	}

	return body, nil
}
