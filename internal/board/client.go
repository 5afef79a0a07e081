// Package board talks to the remote task board's REST API. Every operation
// absorbs its own failures and reports them through a Result.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/imkarma/herd/internal/format"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Trello API root.
	DefaultBaseURL = "https://api.trello.com/1"

	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second
)

const (
	msgUnparsablePayload = "Err: The board returned data that could not be parsed."
	msgUnparsableDesc    = "Err: The existing data could not be parsed."
	msgNameNotFound      = "Name does not exist."
	msgUpdated           = "Successfully updated the description."
)

// Config identifies the board and the credential pair used on every call.
type Config struct {
	BaseURL string
	BoardID string
	Key     string
	Token   string
	Timeout time.Duration // 0 means DefaultTimeout
}

// Client wraps the board's REST endpoints.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the configured board.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAllLists returns every list on the board in service order.
// The message is the list names, one per line.
func (c *Client) ListAllLists(ctx context.Context) Result[[]List] {
	var lists []List
	if f := c.getJSON(ctx, "/boards/"+url.PathEscape(c.cfg.BoardID)+"/lists", nil, &lists); f != nil {
		return failed[[]List](f)
	}
	return success(lists, format.Names(listNames(lists)))
}

// FindListIDByName returns the id of the first list whose name equals name,
// ignoring case.
func (c *Client) FindListIDByName(ctx context.Context, name string) Result[string] {
	all := c.ListAllLists(ctx)
	if !all.Usable {
		return failed[string](all.Failure)
	}
	for _, l := range all.Data {
		if strings.EqualFold(l.Name, name) {
			return success(l.ID, "Found the List ID for "+name+".")
		}
	}
	return failed[string](notFound("list", name, "No List exists by the name '"+name+"'"))
}

// ListCardsInList returns the cards of a single list.
func (c *Client) ListCardsInList(ctx context.Context, listID string) Result[[]Card] {
	var cards []Card
	if f := c.getJSON(ctx, "/lists/"+url.PathEscape(listID)+"/cards", nil, &cards); f != nil {
		return failed[[]Card](f)
	}
	return success(cards, format.Names(cardNames(cards)))
}

// ListAllCards returns every card on the board.
func (c *Client) ListAllCards(ctx context.Context) Result[[]Card] {
	var cards []Card
	if f := c.getJSON(ctx, "/boards/"+url.PathEscape(c.cfg.BoardID)+"/cards", nil, &cards); f != nil {
		return failed[[]Card](f)
	}
	return success(cards, format.Names(cardNames(cards)))
}

// GetCardByName finds the first card, in service order, whose name contains
// name case-insensitively. When several cards match, the earliest wins.
// On success Data is the card id and Message is the card detail view.
func (c *Client) GetCardByName(ctx context.Context, name string) Result[string] {
	all := c.ListAllCards(ctx)
	if !all.Usable {
		return failed[string](all.Failure)
	}

	card, ok := firstContaining(all.Data, name)
	if !ok {
		return failed[string](notFound("card", name, msgNameNotFound))
	}

	list := c.listName(ctx, card.ListID)
	if !list.Usable {
		return failed[string](list.Failure)
	}

	detail := format.CardDetail(format.Detail{
		Name:         card.Name,
		List:         list.Data,
		Description:  card.Desc,
		LastActivity: card.DateLastActivity,
	})
	return success(card.ID, detail)
}

// AppendDescription adds text to a card's description as a paragraph.
//
// This is a read followed by a write with nothing in between holding the
// card: an edit made elsewhere between the two calls is overwritten.
func (c *Client) AppendDescription(ctx context.Context, cardID, text string) Result[string] {
	current := c.readDescription(ctx, cardID)
	if !current.Usable {
		return current
	}

	desc := text
	if current.Data != "" {
		desc = current.Data + "\n\n" + text
	}
	return c.OverwriteDescription(ctx, cardID, desc)
}

// OverwriteDescription replaces a card's description without reading it first.
func (c *Client) OverwriteDescription(ctx context.Context, cardID, text string) Result[string] {
	params := url.Values{"desc": {text}}
	if _, f := c.do(ctx, http.MethodPut, "/cards/"+url.PathEscape(cardID), params); f != nil {
		return failed[string](f)
	}
	return success(text, msgUpdated)
}

// listName fetches only the name of a list.
func (c *Client) listName(ctx context.Context, listID string) Result[string] {
	var l struct {
		Name string `json:"name"`
	}
	params := url.Values{"fields": {"name"}}
	if f := c.getJSON(ctx, "/lists/"+url.PathEscape(listID), params, &l); f != nil {
		return failed[string](f)
	}
	return success(l.Name, l.Name)
}

// readDescription fetches a card's current description. A payload that is not
// an object, or whose desc is absent or not a string, is malformed.
func (c *Client) readDescription(ctx context.Context, cardID string) Result[string] {
	params := url.Values{"fields": {"desc"}}
	body, f := c.do(ctx, http.MethodGet, "/cards/"+url.PathEscape(cardID), params)
	if f != nil {
		return failed[string](f)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return failed[string](c.logged(malformed("desc", msgUnparsableDesc, err)))
	}
	desc, ok := payload["desc"].(string)
	if !ok {
		return failed[string](c.logged(malformed("desc", msgUnparsableDesc, nil)))
	}
	return success(desc, desc)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) *Failure {
	body, f := c.do(ctx, http.MethodGet, path, params)
	if f != nil {
		return f
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.logged(malformed("body", msgUnparsablePayload, err))
	}
	return nil
}

// do performs one round trip with the credential pair attached. Any outcome
// other than a 200 with a readable body is returned as a classified Failure.
func (c *Client) do(ctx context.Context, method, path string, params url.Values) ([]byte, *Failure) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", c.cfg.Key)
	q.Set("token", c.cfg.Token)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, c.logged(networkFailure(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.logged(networkFailure(err))
	}
	defer resp.Body.Close()

	c.log.Debug("board request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, c.logged(statusFailure(method, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.logged(networkFailure(err))
	}
	return body, nil
}

func (c *Client) logged(f *Failure) *Failure {
	fields := []zap.Field{zap.Stringer("kind", f.Kind)}
	switch f.Kind {
	case KindHTTPStatus:
		fields = append(fields, zap.String("method", f.Method), zap.Int("status", f.Status))
	case KindMalformed:
		fields = append(fields, zap.String("field", f.Field))
	}
	if err := f.err; err != nil {
		// url.Error carries the full request URL, credentials included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		fields = append(fields, zap.Error(err))
	}
	c.log.Warn("board call failed", fields...)
	return f
}

func firstContaining(cards []Card, name string) (Card, bool) {
	needle := strings.ToLower(name)
	for _, card := range cards {
		if strings.Contains(strings.ToLower(card.Name), needle) {
			return card, true
		}
	}
	return Card{}, false
}
