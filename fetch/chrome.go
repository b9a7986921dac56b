package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// ChromeBrowser fetches pages through a headless Chrome instance.
// Every session spawns its own browser process
type ChromeBrowser struct {
	execPath string
}

// NewChromeBrowser creates a new headless Chrome browser.
// An empty execPath lets chromedp locate the Chrome binary
func NewChromeBrowser(execPath string) *ChromeBrowser {
	return &ChromeBrowser{
		execPath: execPath,
	}
}

func (b *ChromeBrowser) Open(ctx context.Context, timeouts Timeouts) (Session, error) {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-notifications", true),
	)

	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}

	// The session outlives the Open call, so it gets its own cancellation
	// chain detached from ctx deadlines
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Start the browser
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()

		return nil, fmt.Errorf("%w: unable to start browser: %w", ErrFetch, err)
	}

	return &chromeSession{
		tabCtx:   tabCtx,
		timeouts: timeouts,
		cancelFn: func() {
			cancelTab()
			cancelAlloc()
		},
	}, nil
}

type chromeSession struct {
	tabCtx   context.Context //nolint:containedctx // chromedp binds the tab to a context
	cancelFn context.CancelFunc
	timeouts Timeouts

	closeOnce sync.Once
}

// run executes the actions on the tab, bounded by the caller ctx and the timeout
func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancelFn := context.WithTimeout(s.tabCtx, timeout)
	defer cancelFn()

	stop := context.AfterFunc(ctx, cancelFn)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, s.timeouts.PageLoad, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("%w: unable to navigate to %s: %w", ErrFetch, url, err)
	}

	return nil
}

func (s *chromeSession) WaitForElement(ctx context.Context, selector string, bound time.Duration) error {
	err := s.run(ctx, bound, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %q", ErrTimeout, selector)
	}

	return fmt.Errorf("%w: unable to wait for %q: %w", ErrFetch, selector, err)
}

func (s *chromeSession) Document(ctx context.Context) (*goquery.Document, error) {
	var html string

	if err := s.run(ctx, s.timeouts.Script, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("%w: unable to read page source: %w", ErrFetch, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to construct query doc: %w", ErrFetch, err)
	}

	return doc, nil
}

func (s *chromeSession) Close() error {
	s.closeOnce.Do(s.cancelFn)

	return nil
}
