// Package paymentprobe asks the payment provider whether a payment link was used.
//
// A consumed link answers with a redirect to the receipt page; an open link renders
// the payment form. The probe never follows redirects.
package paymentprobe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"orderflow/internal/core/domain/model/reconciliation"
	"orderflow/internal/core/ports"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config tunes the HTTP client. Zero values fall back to the defaults below.
type Config struct {
	// ProxyURL routes every probe through a forward proxy when set.
	ProxyURL string

	// RatePerSecond caps outgoing probe requests; zero or less disables the limit.
	RatePerSecond float64
	Burst         int

	// Timeout bounds one request when the caller's context has no deadline.
	Timeout time.Duration

	UserAgent string
}

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "orderflow-reconciler/1.0"
)

// HTTPProbe implements ports.PaymentProbe over HTTP GET.
type HTTPProbe struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *zap.Logger
}

var _ ports.PaymentProbe = (*HTTPProbe)(nil)

// NewHTTPProbe builds a probe from cfg.
//
// Example:
//
//	probe, err := paymentprobe.NewHTTPProbe(paymentprobe.Config{
//	    ProxyURL:      "http://proxy.internal:3128",
//	    RatePerSecond: 5,
//	    Burst:         5,
//	}, logger)
func NewHTTPProbe(cfg Config, logger *zap.Logger) (*HTTPProbe, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse probe proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HTTPProbe{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter:   limiter,
		userAgent: userAgent,
		logger:    logger.With(zap.String("component", "payment-probe")),
	}, nil
}

// Probe performs one attempt. Redirects mean Done, other answers below 400 mean
// NotDone. Everything else wraps ports.ErrProbeFailed.
func (p *HTTPProbe) Probe(ctx context.Context, link string) (reconciliation.Completion, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return reconciliation.CompletionUnknown, fmt.Errorf("%w: %w", ports.ErrProbeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return reconciliation.CompletionUnknown, fmt.Errorf("%w: %w", ports.ErrProbeFailed, err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return reconciliation.CompletionUnknown, fmt.Errorf("%w: %w", ports.ErrProbeFailed, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
	}()

	completion, err := Classify(resp.StatusCode)
	if err != nil {
		p.logger.Debug("probe rejected", zap.String("link", link), zap.Int("status", resp.StatusCode))
		return reconciliation.CompletionUnknown, err
	}
	return completion, nil
}

// Classify maps an HTTP status code to a probe answer. Any redirect class code
// counts as done, not only 302; other codes below 400 mean not done.
func Classify(statusCode int) (reconciliation.Completion, error) {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return reconciliation.Done, nil
	}
	if statusCode > 0 && statusCode < http.StatusBadRequest {
		return reconciliation.NotDone, nil
	}
	return reconciliation.CompletionUnknown, fmt.Errorf("%w: status %d", ports.ErrProbeFailed, statusCode)
}
