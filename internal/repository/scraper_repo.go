package repository

import (
	"context"
	"fmt"
	"os"
	"strings"

	"market-intel/config"
	"market-intel/pkg/apperrors"
	"market-intel/pkg/logger"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type PageRenderer interface {
	// RenderParagraphs loads url in a headless browser and returns the text
	// content of all paragraph elements joined with newlines.
	RenderParagraphs(ctx context.Context, url string) (string, error)
}

type chromedpRenderer struct {
	cfg    *config.Config
	logger *logger.Logger
}

func NewChromedpRenderer(cfg *config.Config, log *logger.Logger) PageRenderer {
	return &chromedpRenderer{cfg: cfg, logger: log}
}

func (r *chromedpRenderer) RenderParagraphs(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Scraper.NavigationTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(r.cfg.Scraper.UserAgent),
		chromedp.NoSandbox,
		// http2 handshakes fail against several bank CDNs
		chromedp.Flag("disable-http2", true),
	)
	if execPath := os.Getenv("CHROME_EXECUTABLE_PATH"); execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	// Abort heavy sub-resources, only the DOM text matters here.
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if e, ok := ev.(*fetch.EventRequestPaused); ok {
			go func() {
				c := chromedp.FromContext(taskCtx)
				ectx := cdp.WithExecutor(taskCtx, c.Target)
				switch e.ResourceType {
				case network.ResourceTypeImage, network.ResourceTypeFont, network.ResourceTypeMedia:
					_ = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
				default:
					_ = fetch.ContinueRequest(e.RequestID).Do(ectx)
				}
			}()
		}
	})

	var paragraphs []string
	err := chromedp.Run(taskCtx,
		fetch.Enable(),
		chromedp.Navigate(url),
		chromedp.Evaluate(`Array.from(document.querySelectorAll('p')).map(p => p.innerText)`, &paragraphs),
	)
	if err != nil {
		return "", fmt.Errorf("%w: could not render %s: %v", apperrors.ErrUnavailable, url, err)
	}

	return strings.Join(paragraphs, "\n"), nil
}
