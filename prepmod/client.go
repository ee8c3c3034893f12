package prepmod

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the Massachusetts PrepMod deployment
	DefaultBaseURL = "https://www.maimmunizations.org"
	// SearchPath is the clinic search endpoint, relative to the base URL
	SearchPath = "/clinic/search"
	// DefaultTimeout bounds a single page fetch
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent when no user agent is configured
	DefaultUserAgent = "cobweb"
)

// SearchFilters are passed through to the search endpoint verbatim.
type SearchFilters struct {
	// FromDate limits results to clinics on or after this date, e.g. 2021-02-25
	FromDate string
	// VenueName is a case-insensitive substring match on the venue name
	VenueName string
}

// Page is the raw response for one search page.
type Page struct {
	Number     int
	StatusCode int
	Status     string
	Body       []byte
}

// IsSuccess reports a 2xx response
func (p *Page) IsSuccess() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// IsRedirect reports a 3xx response. The site redirects once the page number
// runs past the last page of results.
func (p *Page) IsRedirect() bool {
	return p.StatusCode >= 300 && p.StatusCode < 400
}

// Client fetches clinic search pages. One Client, and therefore one
// connection pool, is reused for the whole run.
type Client struct {
	baseURL string
	http    *resty.Client
	logger  zerolog.Logger
}

// NewClient creates a new PrepMod client
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, baseURL)
	}

	options := clientOptions{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&options)
	}

	var rc *resty.Client
	if options.httpClient != nil {
		// resty sets Timeout and CheckRedirect on the client it wraps
		hc := *options.httpClient
		rc = resty.NewWithClient(&hc)
	} else {
		rc = resty.New()
	}

	rc.SetBaseURL(baseURL).
		SetTimeout(options.timeout).
		SetHeader("User-Agent", options.userAgent).
		SetLogger(restyLogger{logger: logger}).
		// A redirect ends pagination, so hand it back instead of following it.
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		})).
		OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
			logger.Trace().
				Str("url", res.Request.URL).
				Int("status", res.StatusCode()).
				Dur("elapsed", res.Time()).
				Msg("Search page response")
			return nil
		})

	return &Client{
		baseURL: baseURL,
		http:    rc,
		logger:  logger,
	}, nil
}

// BaseURL returns the site root that registration links are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchPage fetches one page of clinic search results. Non-2xx statuses are
// not errors; only a failure to get any response at all is.
func (c *Client) FetchPage(ctx context.Context, page int, filters SearchFilters) (*Page, error) {
	c.logger.Trace().Int("page", page).Msg("Fetching page")

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(searchParams(page, filters)).
		Get(SearchPath)
	if err != nil {
		return nil, &TransportError{Page: page, URL: c.baseURL + SearchPath, Err: err}
	}

	return &Page{
		Number:     page,
		StatusCode: res.StatusCode(),
		Status:     res.Status(),
		Body:       res.Body(),
	}, nil
}

// searchParams is the full parameter set the search form submits.
func searchParams(page int, filters SearchFilters) url.Values {
	return url.Values{
		"location":      {""},
		"search_radius": {"All"},
		"q[venue_search_name_or_venue_name_i_cont]": {filters.VenueName},
		"q[clinic_date_gteq]":                       {filters.FromDate},
		"q[vaccinations_name_i_cont]":               {""},
		"commit":                                    {"Search"},
		"page":                                      {strconv.Itoa(page)},
	}
}

// restyLogger routes resty's internal messages through zerolog
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}
