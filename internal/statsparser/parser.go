package statsparser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var ErrCounterNotFound = errors.New("subscriber counter not found on page")

// TelegramStats is what the public t.me preview page exposes about a channel.
type TelegramStats struct {
	Username      string    `json:"username"`
	Subscribers   int       `json:"subscribers"`
	VerifiedBadge bool      `json:"verified_badge"`
	FetchedAt     time.Time `json:"fetched_at"`
}

type Parser struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
	maxRetries int
}

func NewParser(timeoutMS, maxRetries int, log *zap.Logger) *Parser {
	return &Parser{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		baseURL:    "https://t.me",
		log:        log,
		maxRetries: maxRetries,
	}
}

// WithBaseURL points the parser at another host; used by tests.
func (p *Parser) WithBaseURL(baseURL string) *Parser {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

// FetchTelegramStats loads t.me/s/<username> and reads the subscriber counter.
func (p *Parser) FetchTelegramStats(ctx context.Context, username string) (*TelegramStats, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	url := fmt.Sprintf("%s/s/%s", p.baseURL, username)

	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		p.log.Warn("t.me fetch failed", zap.String("username", username), zap.Error(lastErr))
		return nil, lastErr
	}

	stats := &TelegramStats{
		Username:  username,
		FetchedAt: time.Now(),
	}

	found := false
	doc.Find(".tgme_channel_info_counter").Each(func(i int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(s.Find(".counter_type").Text()))
		if strings.Contains(label, "subscriber") || strings.Contains(label, "member") {
			stats.Subscribers = ParseCount(s.Find(".counter_value").Text())
			found = true
		}
	})

	// Fallback: header counter, e.g. "12.3K subscribers"
	if !found {
		doc.Find(".tgme_channel_info_header_counter, .tgme_page_extra").Each(func(i int, s *goquery.Selection) {
			text := strings.ToLower(strings.TrimSpace(s.Text()))
			if !found && (strings.Contains(text, "subscriber") || strings.Contains(text, "member")) {
				stats.Subscribers = ParseCount(text)
				found = true
			}
		})
	}

	if !found {
		return nil, ErrCounterNotFound
	}

	stats.VerifiedBadge = doc.Find(".tgme_channel_info_header_title .verified-icon").Length() > 0

	return stats, nil
}

var countRE = regexp.MustCompile(`-?[\d,.]+[KkMm]?`)

// maxCount bounds a parsed count; anything larger is treated as garbage.
const maxCount = math.MaxInt32

// ParseCount turns a human-written count ("1.2K", "12,345", "1 234 followers")
// into an int. Anything without a number, negative, or above maxCount yields 0.
func ParseCount(text string) int {
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, ",", "")

	match := countRE.FindString(text)
	if match == "" {
		return 0
	}

	multiplier := 1
	if strings.HasSuffix(match, "K") || strings.HasSuffix(match, "k") {
		multiplier = 1000
		match = match[:len(match)-1]
	} else if strings.HasSuffix(match, "M") || strings.HasSuffix(match, "m") {
		multiplier = 1000000
		match = match[:len(match)-1]
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil || f < 0 {
		return 0
	}
	n := f * float64(multiplier)
	if n > maxCount {
		return 0
	}
	return int(n)
}
