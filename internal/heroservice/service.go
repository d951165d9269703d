// Package heroservice is the client-side gateway to the hero collection
// endpoint. Every call issues exactly one HTTP request, reports its outcome
// to a message sink, and resolves failures to a fallback value instead of
// returning them.
package heroservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matheustorresii/tour-of-heroes/internal/message"
	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// DefaultCollectionPath is the hero collection path relative to the base URL.
const DefaultCollectionPath = "api/heroes"

const (
	logPrefix       = "HeroService: "
	maxErrorSnippet = 512
)

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service issues hero CRUD requests against one collection endpoint.
type Service struct {
	collection string
	client     HTTPClient
	sink       message.Sink
	logger     *slog.Logger
	metrics    *Metrics
	path       string
}

// Option customizes a Service.
type Option func(*Service)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c HTTPClient) Option {
	return func(s *Service) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the structured logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics enables request metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCollectionPath overrides DefaultCollectionPath.
func WithCollectionPath(p string) Option {
	return func(s *Service) {
		if p = strings.Trim(p, "/"); p != "" {
			s.path = p
		}
	}
}

// New constructs a Service for the API rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, sink message.Sink, opts ...Option) (*Service, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if sink == nil {
		return nil, errors.New("message sink is required")
	}
	s := &Service{
		client: http.DefaultClient,
		sink:   sink,
		logger: slog.Default(),
		path:   DefaultCollectionPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.collection = strings.TrimRight(u.String(), "/") + "/" + s.path
	s.logger = s.logger.With("component", "heroservice")
	return s, nil
}

// CollectionURL returns the absolute URL of the hero collection.
func (s *Service) CollectionURL() string {
	return s.collection
}

// GetHeroes fetches the full collection. A failure is reported and the
// value is nil.
func (s *Service) GetHeroes(ctx context.Context) Result[[]models.Hero] {
	var heroes []models.Hero
	if err := s.do(ctx, "getHeroes", http.MethodGet, s.collection, nil, &heroes); err != nil {
		s.fail("getHeroes", err)
		return Result[[]models.Hero]{Err: err}
	}
	s.log("fetched heroes")
	return Result[[]models.Hero]{Value: heroes}
}

// GetHero fetches one hero by id; on failure the value is the zero Hero.
func (s *Service) GetHero(ctx context.Context, id int) Result[models.Hero] {
	var hero models.Hero
	if err := s.do(ctx, "getHero", http.MethodGet, s.itemURL(id), nil, &hero); err != nil {
		s.fail(fmt.Sprintf("getHero id=%d", id), err)
		return Result[models.Hero]{Err: err}
	}
	s.log(fmt.Sprintf("fetched hero id=%d", id))
	return Result[models.Hero]{Value: hero}
}

// AddHero creates a hero; the server assigns the id of the returned record.
func (s *Service) AddHero(ctx context.Context, hero models.Hero) Result[models.Hero] {
	var created models.Hero
	if err := s.do(ctx, "addHero", http.MethodPost, s.collection, hero, &created); err != nil {
		s.fail("addHero", err)
		return Result[models.Hero]{Err: err}
	}
	s.log(fmt.Sprintf("added hero with id=%d", created.ID))
	return Result[models.Hero]{Value: created}
}

// UpdateHero replaces the stored record keyed by hero.ID. The request goes
// to the collection URL; the id travels in the body.
func (s *Service) UpdateHero(ctx context.Context, hero models.Hero) Result[Ack] {
	var ack Ack
	if err := s.do(ctx, "updateHero", http.MethodPut, s.collection, hero, &ack); err != nil {
		s.fail("updateHero", err)
		return Result[Ack]{Err: err}
	}
	s.log(fmt.Sprintf("updated hero id=%d", hero.ID))
	return Result[Ack]{Value: ack}
}

// DeleteHero removes the referenced hero.
func (s *Service) DeleteHero(ctx context.Context, ref HeroRef) Result[Ack] {
	id, ok := resolveRef(ref)
	if !ok {
		err := fmt.Errorf("%w: %w", ErrRequestFailed, errNilRef)
		s.fail("deleteHero", err)
		return Result[Ack]{Err: err}
	}
	var ack Ack
	if err := s.do(ctx, "deleteHero", http.MethodDelete, s.itemURL(id), nil, &ack); err != nil {
		s.fail("deleteHero", err)
		return Result[Ack]{Err: err}
	}
	s.log(fmt.Sprintf("deleted hero id=%d", id))
	return Result[Ack]{Value: ack}
}

// DeleteHeroByID is DeleteHero(ctx, ByID(id)).
func (s *Service) DeleteHeroByID(ctx context.Context, id int) Result[Ack] {
	return s.DeleteHero(ctx, ByID(id))
}

// SearchHeroes asks the server for heroes whose name contains term. A blank
// term resolves to an empty slice without contacting the server.
func (s *Service) SearchHeroes(ctx context.Context, term string) Result[[]models.Hero] {
	if strings.TrimSpace(term) == "" {
		return Result[[]models.Hero]{Value: []models.Hero{}}
	}
	target := s.collection + "/?name=" + url.QueryEscape(term)
	var heroes []models.Hero
	if err := s.do(ctx, "searchHeroes", http.MethodGet, target, nil, &heroes); err != nil {
		s.fail("searchHeroes", err)
		return Result[[]models.Hero]{Value: []models.Hero{}, Err: err}
	}
	if heroes == nil {
		heroes = []models.Hero{}
	}
	s.log(fmt.Sprintf("found heroes matching \"%s\"", term))
	return Result[[]models.Hero]{Value: heroes}
}

func (s *Service) itemURL(id int) string {
	return s.collection + "/" + strconv.Itoa(id)
}

// do sends one request and decodes a JSON response into out. When out is
// an *Ack the raw body is kept instead of decoded.
func (s *Service) do(ctx context.Context, operation, method, target string, body, out any) (err error) {
	started := time.Now()
	defer func() { s.metrics.observe(operation, started, err) }()

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return requestFailed(method, target, mErr)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return requestFailed(method, target, err)
	}
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return requestFailed(method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return requestFailed(method, target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return requestFailed(method, target, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       snippet(data),
		})
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *Ack:
		dst.StatusCode = resp.StatusCode
		if len(bytes.TrimSpace(data)) > 0 {
			dst.Body = json.RawMessage(data)
		}
		return nil
	default:
		if err := json.Unmarshal(data, dst); err != nil {
			return requestFailed(method, target, fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
}

func (s *Service) log(msg string) {
	s.sink.Add(logPrefix + msg)
}

func (s *Service) fail(operation string, err error) {
	s.logger.Error("hero request failed", "operation", operation, "err", err)
	s.log(fmt.Sprintf("%s failed: %s", operation, err.Error()))
}

func snippet(data []byte) string {
	text := strings.TrimSpace(string(data))
	if len(text) > maxErrorSnippet {
		text = text[:maxErrorSnippet]
	}
	return text
}
