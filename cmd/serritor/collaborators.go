package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/jiuzixue09/serritor/internal/config"
	"github.com/jiuzixue09/serritor/internal/crawler"
	"github.com/jiuzixue09/serritor/internal/delay"
	"github.com/jiuzixue09/serritor/internal/frontier"
	"github.com/jiuzixue09/serritor/internal/model"
)

// stubBrowser satisfies the crawler's Browser interface without driving a
// real browser. It treats every navigation as an instant, successful page
// load and never observes client-side redirects.
//
// TODO: back this with a WebDriver-based implementation (chromedp fits the
// interface directly); the loop only needs Navigate, CurrentURL,
// ExecuteScript, and Close.
type stubBrowser struct {
	mu      sync.Mutex
	current string
}

// Navigate implements crawler.Browser.
func (b *stubBrowser) Navigate(_ context.Context, pageURL string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = pageURL
	return nil
}

// CurrentURL implements crawler.Browser.
func (b *stubBrowser) CurrentURL() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, nil
}

// ExecuteScript implements crawler.Browser. Without a page to measure, it
// reports a zero load time, which the adaptive delay clamps to its minimum.
func (b *stubBrowser) ExecuteScript(string) (any, error) {
	return int64(0), nil
}

// Close implements crawler.Browser.
func (b *stubBrowser) Close() error {
	return nil
}

// passthroughProber satisfies the crawler's Prober interface without
// touching the network: every URL probes as HTML with no redirect.
type passthroughProber struct{}

// Probe implements crawler.Prober.
func (passthroughProber) Probe(_ context.Context, pageURL string) (*crawler.ProbeResult, error) {
	return &crawler.ProbeResult{
		FinalURL:    pageURL,
		ContentType: "text/html",
	}, nil
}

// buildMechanism constructs the delay mechanism selected by the config.
// The adaptive strategy measures page load time through the browser.
func buildMechanism(cfg *config.Config, browser crawler.Browser) (delay.Mechanism, error) {
	switch cfg.DelayStrategy {
	case config.DelayFixed:
		return delay.NewFixed(cfg.FixedDelay)
	case config.DelayRandom:
		return delay.NewRandom(cfg.MinDelay, cfg.MaxDelay)
	case config.DelayAdaptive:
		return delay.NewAdaptive(cfg.MinDelay, cfg.MaxDelay, crawler.NewBrowserTimingSource(browser))
	}
	return nil, config.ErrInvalidDelayStrategy
}

// buildFrontier creates a frontier from the config and feeds the seeds.
func buildFrontier(cfg *config.Config) (*frontier.Frontier, error) {
	f := frontier.New(
		frontier.WithMaxDepth(cfg.MaxCrawlDepth),
		frontier.WithOffsiteFiltering(cfg.OffsiteFiltering),
	)

	for _, seed := range cfg.Seeds {
		request, err := model.NewRequest(seed).Build()
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: %w", seed, err)
		}
		f.Feed(request, true)
	}

	return f, nil
}
