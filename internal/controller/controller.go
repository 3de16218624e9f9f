// Package controller orchestrates extractor calls for the routing layer:
// cache check, extraction, cache store, and error-shape normalization. Every
// operation answers with a JSON-serializable envelope; no failure is ever
// silent and none is fatal to the process.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pranjalweb/filmveer/internal/cache"
	"github.com/pranjalweb/filmveer/internal/scraper"
)

// transientMessage is the "try again later" classification for upstream
// conditions, distinct from parse failures.
const transientMessage = "upstream source is unavailable, try again later"

// Response is the envelope every controller operation returns.
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// TTLs configures per-endpoint cache lifetimes.
type TTLs struct {
	Home     time.Duration
	Info     time.Duration
	Episodes time.Duration
	Stream   time.Duration
	Browse   time.Duration
}

// DefaultTTLs returns the cache lifetimes used when none are configured.
func DefaultTTLs() TTLs {
	return TTLs{
		Home:     10 * time.Minute,
		Info:     30 * time.Minute,
		Episodes: 15 * time.Minute,
		Stream:   5 * time.Minute,
		Browse:   10 * time.Minute,
	}
}

// Controller answers the routing layer.
type Controller struct {
	scraper      *scraper.Scraper
	cache        *cache.Cache
	ttls         TTLs
	homeDeadline time.Duration
	logger       *slog.Logger
	started      time.Time
}

// New creates a Controller. homeDeadline bounds the whole home extraction;
// zero means 20 seconds.
func New(s *scraper.Scraper, c *cache.Cache, ttls TTLs, homeDeadline time.Duration, logger *slog.Logger) *Controller {
	if homeDeadline <= 0 {
		homeDeadline = 20 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		scraper:      s,
		cache:        c,
		ttls:         ttls,
		homeDeadline: homeDeadline,
		logger:       logger,
		started:      time.Now(),
	}
}

// GetHome races the home aggregation against a hard deadline. A deadline
// win is a transient condition; the aggregator's own fallback payload
// already covers total upstream unavailability.
func (c *Controller) GetHome(ctx context.Context) Response {
	const key = "home"
	if payload, ok := c.cache.Get(key); ok {
		return succeed(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.homeDeadline)
	defer cancel()

	type result struct {
		payload *scraper.HomePayload
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		p, err := c.scraper.Home(ctx)
		ch <- result{p, err}
	}()

	select {
	case <-ctx.Done():
		c.logger.Warn("home extraction lost the deadline race", "deadline", c.homeDeadline)
		return Response{Success: false, Error: transientMessage, Retryable: true}
	case res := <-ch:
		if res.err != nil {
			return c.fail("home", res.err)
		}
		// A fallback payload reflects an outage; caching it would pin the
		// outage for a full TTL.
		if !res.payload.IsFallback {
			c.cache.Set(key, res.payload, c.ttls.Home)
		}
		return succeed(res.payload)
	}
}

// GetInfo returns one content item.
func (c *Controller) GetInfo(ctx context.Context, id string) Response {
	key := "info:" + id
	if payload, ok := c.cache.Get(key); ok {
		return succeed(payload)
	}
	item, err := c.scraper.Info(ctx, id)
	if err != nil {
		return c.fail("info", err)
	}
	c.cache.Set(key, item, c.ttls.Info)
	return succeed(item)
}

// GetEpisodes returns the ordered episode list of a content item.
func (c *Controller) GetEpisodes(ctx context.Context, id string) Response {
	key := "episodes:" + id
	if payload, ok := c.cache.Get(key); ok {
		return succeed(payload)
	}
	list, err := c.scraper.Episodes(ctx, id)
	if err != nil {
		return c.fail("episodes", err)
	}
	c.cache.Set(key, list, c.ttls.Episodes)
	return succeed(list)
}

// GetStream returns the playable sources for one episode.
func (c *Controller) GetStream(ctx context.Context, episodeID, language string) Response {
	key := fmt.Sprintf("stream:%s:%s", episodeID, language)
	if payload, ok := c.cache.Get(key); ok {
		return succeed(payload)
	}
	streams, err := c.scraper.Stream(ctx, episodeID, language)
	if err != nil {
		return c.fail("stream", err)
	}
	c.cache.Set(key, streams, c.ttls.Stream)
	return succeed(streams)
}

// GetMovies returns one page of the movie listing.
func (c *Controller) GetMovies(ctx context.Context, page, size int) Response {
	key := fmt.Sprintf("movies:%d:%d", page, size)
	if payload, ok := c.cache.Get(key); ok {
		return succeed(payload)
	}
	result, err := c.scraper.Movies(ctx, page, size)
	if err != nil {
		return c.fail("movies", err)
	}
	c.cache.Set(key, result, c.ttls.Browse)
	return succeed(result)
}

// Search returns one page of ranked search results.
func (c *Controller) Search(ctx context.Context, query string, page, size int) Response {
	key := fmt.Sprintf("search:%s:%d:%d", query, page, size)
	if payload, ok := c.cache.Get(key); ok {
		return succeed(payload)
	}
	result, err := c.scraper.Search(ctx, query, page, size)
	if err != nil {
		return c.fail("search", err)
	}
	c.cache.Set(key, result, c.ttls.Browse)
	return succeed(result)
}

// GetGenre returns one page of a genre listing.
func (c *Controller) GetGenre(ctx context.Context, genre string, page, size int) Response {
	key := fmt.Sprintf("genre:%s:%d:%d", genre, page, size)
	if payload, ok := c.cache.Get(key); ok {
		return succeed(payload)
	}
	result, err := c.scraper.Genre(ctx, genre, page, size)
	if err != nil {
		return c.fail("genre", err)
	}
	c.cache.Set(key, result, c.ttls.Browse)
	return succeed(result)
}

// Stats reports cache counters and uptime for observability.
func (c *Controller) Stats() (cache.Stats, time.Duration) {
	return c.cache.Stats(), time.Since(c.started)
}

func (c *Controller) fail(op string, err error) Response {
	if scraper.IsTransient(err) {
		c.logger.Warn("transient extraction failure", "op", op, "error", err)
		return Response{Success: false, Error: transientMessage, Retryable: true}
	}
	c.logger.Error("extraction failed", "op", op, "error", err)
	return Response{Success: false, Error: err.Error()}
}

func succeed(payload any) Response {
	return Response{Success: true, Data: payload}
}
