// Package backend wraps the three questionnaire service calls a session
// makes per accepted turn: answer classification, answer persistence, and
// next-question evaluation.
package backend

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultClassifyURL = "https://pi-audit-app.radpretation.ai/api/response"
	defaultPersistURL  = "https://pi-audit-app.radpretation.ai/api/api/project/userresponse"
	defaultEvaluateURL = "https://pi-audit-app.radpretation.ai/api/api/assesment-task/evaluate"
)

// TokenSource supplies the per-session bearer credential for authorized
// calls. The classification call is unauthenticated by contract.
type TokenSource interface {
	Token() string
}

type Client struct {
	httpClient *http.Client
	tokens     TokenSource

	classifyURL string
	persistURL  string
	evaluateURL string
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithClassifyURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.classifyURL = url
		}
	}
}

func WithPersistURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.persistURL = url
		}
	}
}

func WithEvaluateURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.evaluateURL = url
		}
	}
}

func NewClient(tokens TokenSource, opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
		tokens:      tokens,
		classifyURL: defaultClassifyURL,
		persistURL:  defaultPersistURL,
		evaluateURL: defaultEvaluateURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *Client) bearerToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}
