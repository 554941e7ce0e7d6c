// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package browser manages a bounded pool of headless Chrome instances
// for page rendering. Browsers are spawned lazily, reused across
// renders, and respawned when they die.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Config holds the pool settings.
type Config struct {
	// Size is the maximum number of concurrent browser instances.
	Size int
	// UserAgent is sent with every page load.
	UserAgent string
}

// slot holds one live browser: its exec allocator and the long-lived
// browser context tabs are derived from.
type slot struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

func (s *slot) close() {
	if s == nil {
		return
	}
	s.cancel()
	s.allocCancel()
}

// alive reports whether the browser process behind the slot still runs.
func (s *slot) alive() bool {
	return s != nil && s.ctx.Err() == nil
}

// Pool is a bounded pool of headless browsers. Acquire blocks until a
// slot is free or the caller's context is cancelled.
type Pool struct {
	cfg  Config
	sem  chan *slot
	quit chan struct{}
	mu   sync.Mutex
	done bool

	// spawn is swapped out in tests to avoid requiring a Chrome binary.
	spawn func() (*slot, error)
}

// NewPool creates a pool with at most cfg.Size concurrent browsers.
// No browser is started until the first Acquire.
func NewPool(cfg Config) *Pool {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}

	p := &Pool{
		cfg:  cfg,
		sem:  make(chan *slot, cfg.Size),
		quit: make(chan struct{}),
	}
	p.spawn = p.spawnBrowser

	// Fill the semaphore with empty slots; each is replaced with a
	// live browser on first use.
	for i := 0; i < cfg.Size; i++ {
		p.sem <- nil
	}

	return p
}

// Acquire returns a tab context bound to a pooled browser plus a release
// function. The tab is fresh per call; the browser behind it is reused.
// Callers must invoke release exactly once.
func (p *Pool) Acquire(ctx context.Context) (context.Context, func(), error) {
	var s *slot
	select {
	case s = <-p.sem:
	case <-p.quit:
		return nil, nil, fmt.Errorf("browser: pool is shut down")
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	if !s.alive() {
		s.close()
		fresh, err := p.spawn()
		if err != nil {
			// Hand the empty slot back so the pool does not shrink.
			p.sem <- nil
			return nil, nil, fmt.Errorf("browser: spawn: %w", err)
		}
		s = fresh
	}

	tabCtx, tabCancel := chromedp.NewContext(s.ctx)

	release := func() {
		tabCancel()
		p.sem <- s
	}

	return tabCtx, release, nil
}

// spawnBrowser starts a headless Chrome and verifies it responds.
func (p *Pool) spawnBrowser() (*slot, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(p.cfg.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &slot{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      browserCancel,
	}

	start := time.Now()
	testCtx, testCancel := context.WithTimeout(browserCtx, 30*time.Second)
	defer testCancel()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		s.close()
		return nil, fmt.Errorf("startup check: %w", err)
	}

	slog.Debug("browser spawned", "startup", time.Since(start))
	return s, nil
}

// Shutdown closes every browser in the pool. Acquire calls made after
// Shutdown fail. Blocks until all slots have been returned or the
// context expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return nil
	}
	p.done = true
	close(p.quit)
	p.mu.Unlock()

	for i := 0; i < cap(p.sem); i++ {
		select {
		case s := <-p.sem:
			s.close()
		case <-ctx.Done():
			return fmt.Errorf("browser: shutdown: %w", ctx.Err())
		}
	}

	slog.Info("browser pool shut down", "size", cap(p.sem))
	return nil
}
