package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/promotoria-nhamunda/controle-prazos/internal/records"
	"github.com/promotoria-nhamunda/controle-prazos/pkg/logger"
)

var (
	// CNJ unified number NNNNNNN-DD.YYYY.J.TR.OOOO
	processPattern = regexp.MustCompile(`\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}`)
	datePattern    = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
	spaces         = regexp.MustCompile(`\s+`)
)

// RowSource splits an HTML listing into the text of its table rows
type RowSource interface {
	Rows(ctx context.Context, html string) ([]string, error)
}

// BrowserRows renders the listing in a headless browser and reads every
// tr element. The browser is launched on first use.
type BrowserRows struct {
	headless    bool
	browserPath string
	logger      *logger.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserRows creates a row source backed by a local Chromium
func NewBrowserRows(headless bool, browserPath string, logger *logger.Logger) *BrowserRows {
	return &BrowserRows{
		headless:    headless,
		browserPath: browserPath,
		logger:      logger,
	}
}

func (b *BrowserRows) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().Headless(b.headless)
	if b.browserPath != "" {
		l = l.Bin(b.browserPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	b.logger.Info("Browser launched for HTML listings", "headless", b.headless)
	b.browser = browser
	return browser, nil
}

// Rows returns the whitespace-normalized text of each table row
func (b *BrowserRows) Rows(ctx context.Context, html string) ([]string, error) {
	browser, err := b.connect()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	elements, err := page.Elements("tr")
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rows := make([]string, 0, len(elements))
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			b.logger.Warn("Failed to read row text", "error", err)
			continue
		}
		rows = append(rows, text)
	}
	return rows, nil
}

// Close shuts the browser down if it was launched
func (b *BrowserRows) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}

// ParseRows finds a process number and a DD/MM/YYYY due date in each row.
// Rows missing either are ignored. The first date of a row is taken as
// the due date.
func ParseRows(rows []string, now time.Time) []records.DeadlineCandidate {
	candidates := make([]records.DeadlineCandidate, 0, len(rows))
	for _, row := range rows {
		text := strings.TrimSpace(spaces.ReplaceAllString(row, " "))

		number := processPattern.FindString(text)
		date := datePattern.FindStringSubmatch(text)
		if number == "" || date == nil {
			continue
		}

		end := fmt.Sprintf("%s-%s-%s", date[3], date[2], date[1])
		candidates = append(candidates, records.DeadlineCandidate{
			ProcessNumber:    ptr(number),
			System:           ptr(string(inferSystem(text))),
			ProceduralClass:  ptr("Extraído via Regex"),
			MainSubject:      ptr("Geral"),
			DeadlineDuration: ptr("?"),
			StartDate:        ptr(now.Format(time.RFC3339)),
			EndDate:          ptr(end),
		})
	}
	return candidates
}

// inferSystem guesses the origin system from the row text
func inferSystem(text string) records.System {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "seeu"):
		return records.SystemSEEU
	case strings.Contains(lower, "sei"):
		return records.SystemSEI
	case strings.Contains(lower, "mpv"), strings.Contains(lower, "simba"):
		return records.SystemMPV
	default:
		return records.SystemPROJUDI
	}
}

func ptr(s string) *string {
	return &s
}
