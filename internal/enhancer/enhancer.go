// Package enhancer rewrites item descriptions through an optional
// OpenAI-compatible collaborator. Failures never propagate: callers
// always get a usable description back.
package enhancer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const prompt = "Make this lost item description short, clear and helpful for reuniting with owner:\n\n"

type (
	// An Enhancer attempts to produce a clearer, shorter rewrite of the
	// given text. It returns the input unchanged on any failure.
	Enhancer interface {
		Enhance(ctx context.Context, text string) string
	}

	// A Noop keeps descriptions as-is. It is used when no credential is configured.
	Noop struct{}

	// Config holds the parameters of the remote collaborator.
	Config struct {
		APIKey   string
		Endpoint string
		Model    string
		Timeout  time.Duration
	}

	p      map[string]any
	openai struct {
		http     *http.Client
		endpoint string
		apikey   string
		model    string
	}
)

// Enhance implements Enhancer.
func (Noop) Enhance(_ context.Context, text string) string {
	return text
}

// New returns an Enhancer for the given configuration.
// Without an API key, the returned Enhancer is a Noop.
func New(c Config) Enhancer {
	if c.APIKey == "" {
		return Noop{}
	}
	if c.Endpoint == "" {
		c.Endpoint = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-3.5-turbo"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}

	return &openai{
		http:     &http.Client{Timeout: c.Timeout},
		endpoint: c.Endpoint,
		apikey:   c.APIKey,
		model:    c.Model,
	}
}

// Enhance implements Enhancer.
func (e *openai) Enhance(ctx context.Context, text string) string {
	if text == "" {
		return text
	}

	improved, err := e.complete(ctx, text)
	if err != nil {
		logrus.WithError(err).Warn("could not enhance description")
		return text
	}
	if improved == "" {
		return text
	}
	return improved
}

func (e *openai) complete(ctx context.Context, text string) (string, error) {
	u, err := url.Parse(e.endpoint)
	if err != nil {
		return "", errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, "/chat/completions")

	//
	// Build request
	body, err := json.Marshal(p{
		"model": e.model,
		"messages": []p{
			{"role": "user", "content": prompt + text},
		},
		"max_tokens": 80,
	})
	if err != nil {
		return "", errors.Wrap(err, "could not serialize completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", "Bearer "+e.apikey)

	//
	// Perform request
	res, err := e.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", errors.Errorf("enhancer replied with status %d", res.StatusCode)
	}

	//
	// Process response
	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	dec := json.NewDecoder(res.Body)
	if err = dec.Decode(&payload); err != nil {
		return "", errors.Wrap(err, "could not parse response")
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("no completion choice returned")
	}

	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}
