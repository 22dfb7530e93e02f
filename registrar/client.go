// Package registrar scrapes course listings, requisites and subject areas
// from the registrar's public schedule of classes.
package registrar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/brequin/brequin/advise/config"
)

type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIURL  string
	Quarter string
	Workers int
	Logger  *slog.Logger

	limiter *rate.Limiter
}

func NewClient(cfg config.ScrapeConfig, logger *slog.Logger) *Client {
	return &Client{
		HTTP:    http.DefaultClient,
		BaseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		APIURL:  strings.TrimSuffix(cfg.APIURL, "/"),
		Quarter: cfg.Quarter,
		Workers: cfg.Workers,
		Logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// get fetches rawURL once the rate limiter allows it.
func (c *Client) get(ctx context.Context, rawURL string, query url.Values) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if query != nil {
		request.URL.RawQuery = query.Encode()
	}

	// Required
	request.Header.Add("X-Requested-With", "XMLHttpRequest")

	response, err := c.HTTP.Do(request)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", request.URL.Path, response.Status)
	}
	c.Logger.Debug("fetched", slog.String("path", request.URL.Path))
	return response.Body, nil
}

func (c *Client) document(ctx context.Context, rawURL string, query url.Values) (*goquery.Document, error) {
	body, err := c.get(ctx, rawURL, query)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return goquery.NewDocumentFromReader(body)
}
