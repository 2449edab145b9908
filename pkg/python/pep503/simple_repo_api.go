// Package pep503 implements a client for PEP 503 -- Simple Repository API.
//
// https://www.python.org/dev/peps/pep-0503/
package pep503

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/memphora/pypub/pkg/htmlutil"
)

const (
	// PyPIBaseURL is the simple-API root of the production Python Package
	// Index.
	PyPIBaseURL = "https://pypi.org/simple/"
	// TestPyPIBaseURL is the simple-API root of the TestPyPI staging index.
	TestPyPIBaseURL = "https://test.pypi.org/simple/"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = PyPIBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "github.com/memphora/pypub/pkg/python/pep503"
	}
}

type HTTPError struct {
	Status     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s", e.Status)
}

// A FileLink is one anchor on a project's simple-API page; Filename is the
// anchor text and URL is the (resolved) href.
type FileLink struct {
	Filename string
	URL      string
}

var reNameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizeName normalizes a project name per PEP 503: lowercase, with runs of
// ".", "-", and "_" replaced by a single "-".
func NormalizeName(name string) string {
	return strings.ToLower(reNameSeparators.ReplaceAllString(name, "-"))
}

func (c Client) get(ctx context.Context, requestURL string) (_ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("GET %q => %w", requestURL, err)
		}
	}()
	c.fillDefaults()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	if err := resp.Body.Close(); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: resp.Status, StatusCode: resp.StatusCode}
	}
	return content, nil
}

// ListFiles fetches the simple-API page for a project and returns the file
// links on it.  A 404 from the index means the project has no releases there;
// that is reported as an *HTTPError with StatusCode 404.
func (c Client) ListFiles(ctx context.Context, project string) ([]FileLink, error) {
	c.fillDefaults()

	pageURL := c.BaseURL
	if !strings.HasSuffix(pageURL, "/") {
		pageURL += "/"
	}
	pageURL += NormalizeName(project) + "/"

	content, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("GET %q => %w", pageURL, err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	var links []FileLink
	err = htmlutil.Visit(doc, func(node *html.Node) error {
		if node.Type != html.ElementNode || node.Data != "a" {
			return nil
		}
		link := FileLink{
			Filename: strings.TrimSpace(htmlutil.Text(node)),
		}
		if href, ok := htmlutil.Attr(node, "href"); ok {
			hrefURL, err := url.Parse(href)
			if err != nil {
				return fmt.Errorf("GET %q => invalid href %q: %w", pageURL, href, err)
			}
			link.URL = base.ResolveReference(hrefURL).String()
		}
		links = append(links, link)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}
