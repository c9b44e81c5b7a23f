// Package relay replays requests from a network-constrained client against a
// fixed upstream origin and hands the upstream answer back unchanged, plus a
// permissive CORS header.
package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lumen_bridge/internal/logger"
	"lumen_bridge/internal/requestid"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	userAgent          = "lumen-relay/1.0"
	defaultContentType = "application/json"
	defaultTimeout     = 10 * time.Second
	maxBodyBytes       = 1 << 20 // 1 MB
)

// Client-facing error messages.
const (
	errUnreachable  = "upstream indisponível"
	errTimeout      = "upstream não respondeu a tempo"
	errRateLimited  = "limite de requisições excedido"
	errBodyTooLarge = "corpo da requisição muito grande"
	errBadBody      = "corpo da requisição inválido"
	errNoMethod     = "método não permitido"
)

// Options tunes a Forwarder. Zero values mean: 10s timeout, no rate limit,
// a fresh http.Client.
type Options struct {
	Timeout      time.Duration
	RateLimitRPS float64
	Client       *http.Client
}

// Forwarder holds no per-request state; concurrent calls are independent.
type Forwarder struct {
	upstream string
	timeout  time.Duration
	client   *http.Client
	limiter  *rate.Limiter
	log      *logger.Logger
}

// NewForwarder validates upstream and builds a Forwarder. log may be nil.
func NewForwarder(upstream string, opts Options, log *logger.Logger) (*Forwarder, error) {
	u, err := url.Parse(upstream)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("relay upstream %q: must be an absolute URL", upstream)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("relay upstream %q: unsupported scheme %q", upstream, u.Scheme)
	}
	if opts.RateLimitRPS < 0 {
		return nil, fmt.Errorf("relay rate limit must not be negative, got %v", opts.RateLimitRPS)
	}

	f := &Forwarder{
		upstream: strings.TrimRight(upstream, "/"),
		timeout:  opts.Timeout,
		client:   opts.Client,
		log:      log,
	}
	if f.timeout <= 0 {
		f.timeout = defaultTimeout
	}
	if f.client == nil {
		f.client = &http.Client{
			// Redirects go back to the caller untouched.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		}
	}
	if opts.RateLimitRPS > 0 {
		burst := int(opts.RateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}
	return f, nil
}

// Target is the upstream URL for an inbound request URI (path plus query).
func (f *Forwarder) Target(requestURI string) string {
	return f.upstream + requestURI
}

type relayError struct {
	Erro string `json:"erro"`
}

func (f *Forwarder) forward(c *gin.Context) {
	start := time.Now()
	inbound := c.Request.Context()
	ctx, cancel := context.WithTimeout(inbound, f.timeout)
	defer cancel()

	body, err := readBody(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			f.fail(c, http.StatusRequestEntityTooLarge, errBodyTooLarge, "relay_body_too_large", err)
			return
		}
		f.fail(c, http.StatusBadRequest, errBadBody, "relay_body_read_failed", err)
		return
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			if inbound.Err() != nil {
				f.clientGone(c, err)
				return
			}
			f.fail(c, http.StatusServiceUnavailable, errRateLimited, "relay_rate_limited", err)
			return
		}
	}

	target := f.Target(c.Request.URL.RequestURI())
	req, err := http.NewRequestWithContext(ctx, c.Request.Method, target, bytes.NewReader(body))
	if err != nil {
		f.fail(c, http.StatusBadGateway, errUnreachable, "relay_build_request_failed", err)
		return
	}
	if len(body) == 0 {
		req.Body = http.NoBody
		req.ContentLength = 0
	}
	ct := c.GetHeader("Content-Type")
	if ct == "" {
		ct = defaultContentType
	}
	req.Header.Set("Content-Type", ct)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(requestid.Header, requestid.Get(c))

	resp, err := f.client.Do(req)
	if err != nil {
		f.transportError(c, inbound, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		f.transportError(c, inbound, err)
		return
	}

	respCT := resp.Header.Get("Content-Type")
	if resp.StatusCode >= http.StatusBadRequest && len(payload) == 0 {
		c.JSON(resp.StatusCode, relayError{Erro: reasonPhrase(resp)})
	} else {
		if respCT != "" {
			c.Header("Content-Type", respCT)
		}
		c.Status(resp.StatusCode)
		_, _ = c.Writer.Write(payload)
	}

	if f.log != nil {
		f.log.Infow("relay_forwarded",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", resp.StatusCode,
			"bytes", len(payload),
			"duration", time.Since(start),
			"request_id", requestid.Get(c),
		)
	}
}

// transportError maps a failed upstream exchange: deadline → 504, anything
// else → 502. A caller that hung up gets nothing.
func (f *Forwarder) transportError(c *gin.Context, inbound context.Context, err error) {
	if inbound.Err() != nil {
		f.clientGone(c, err)
		return
	}
	if isTimeout(err) {
		f.fail(c, http.StatusGatewayTimeout, errTimeout, "relay_upstream_timeout", err)
		return
	}
	f.fail(c, http.StatusBadGateway, errUnreachable, "relay_upstream_unreachable", err)
}

func (f *Forwarder) clientGone(c *gin.Context, err error) {
	if f.log != nil {
		f.log.Infow("relay_client_gone", "err", err, "path", c.Request.URL.Path, "request_id", requestid.Get(c))
	}
	c.Abort()
}

func (f *Forwarder) fail(c *gin.Context, code int, msg, logKey string, err error) {
	if f.log != nil {
		f.log.Warnw(logKey,
			"err", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", code,
			"request_id", requestid.Get(c),
		)
	}
	c.AbortWithStatusJSON(code, relayError{Erro: msg})
}

func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// reasonPhrase returns the text after the code in resp.Status ("404 Not Found").
func reasonPhrase(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	return resp.Status
}
