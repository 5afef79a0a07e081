// Package boardtest provides an in-memory stand-in for the board REST API.
package boardtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/imkarma/herd/internal/board"
)

// Credentials the fake accepts.
const (
	Key   = "test-key"
	Token = "test-token"
)

// Route names, usable with Fail.
const (
	RouteBoardLists = "board-lists"
	RouteBoardCards = "board-cards"
	RouteListCards  = "list-cards"
	RouteList       = "list"
	RouteCardGet    = "card-get"
	RouteCardPut    = "card-put"
)

// Request is one call the fake received.
type Request struct {
	Route  string
	Method string
	Path   string
	Query  map[string]string
	Accept string
}

// Server is a fake board service. Cards are stored as raw JSON objects so
// tests can serve payloads the real service never would.
type Server struct {
	*httptest.Server
	BoardID string

	mu       sync.Mutex
	lists    []board.List
	cards    []map[string]any
	failures map[string]int
	requests []Request
}

// New starts a fake for boardID and stops it when the test ends.
func New(t testing.TB, boardID string) *Server {
	t.Helper()
	s := &Server{BoardID: boardID, failures: map[string]int{}}

	r := mux.NewRouter()
	r.Use(s.record, s.authorize, s.injectFailures)
	r.HandleFunc("/boards/{board}/lists", s.boardLists).Methods(http.MethodGet).Name(RouteBoardLists)
	r.HandleFunc("/boards/{board}/cards", s.boardCards).Methods(http.MethodGet).Name(RouteBoardCards)
	r.HandleFunc("/lists/{list}/cards", s.listCards).Methods(http.MethodGet).Name(RouteListCards)
	r.HandleFunc("/lists/{list}", s.list).Methods(http.MethodGet).Name(RouteList)
	r.HandleFunc("/cards/{card}", s.cardGet).Methods(http.MethodGet).Name(RouteCardGet)
	r.HandleFunc("/cards/{card}", s.cardPut).Methods(http.MethodPut).Name(RouteCardPut)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Client returns a board client pointed at the fake with valid credentials.
func (s *Server) Client(opts ...board.Option) *board.Client {
	return board.New(board.Config{
		BaseURL: s.URL,
		BoardID: s.BoardID,
		Key:     Key,
		Token:   Token,
	}, opts...)
}

// AddList appends a list to the board.
func (s *Server) AddList(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, board.List{ID: id, Name: name})
}

// AddCard appends a card to the board.
func (s *Server) AddCard(c board.Card) {
	s.AddRawCard(map[string]any{
		"id":               c.ID,
		"name":             c.Name,
		"desc":             c.Desc,
		"idList":           c.ListID,
		"dateLastActivity": c.DateLastActivity,
	})
}

// AddRawCard appends a card exactly as given. It must carry "id" and "idList".
func (s *Server) AddRawCard(card map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append(s.cards, card)
}

// Desc returns the stored description of a card.
func (s *Server) Desc(cardID string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.findCard(cardID); c != nil {
		return c["desc"]
	}
	return nil
}

// SetDesc replaces a card's description behind the client's back.
func (s *Server) SetDesc(cardID string, desc any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.findCard(cardID); c != nil {
		c["desc"] = desc
	}
}

// Fail makes every request on route answer with status.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Requests returns the calls received so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Routes returns the route names of the calls received so far.
func (s *Server) Routes() []string {
	var routes []string
	for _, r := range s.Requests() {
		routes = append(routes, r.Route)
	}
	return routes
}

// UnreachableURL returns the address of a server that has already shut down.
func UnreachableURL(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		route := ""
		if cur := mux.CurrentRoute(r); cur != nil {
			route = cur.GetName()
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Route:  route,
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  q,
			Accept: r.Header.Get("Accept"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != Key || q.Get("token") != Token {
			http.Error(w, "invalid key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[mux.CurrentRoute(r).GetName()]
		s.mu.Unlock()
		if ok {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) boardLists(w http.ResponseWriter, r *http.Request) {
	if !s.knownBoard(w, r) {
		return
	}
	s.mu.Lock()
	lists := append([]board.List{}, s.lists...)
	s.mu.Unlock()
	writeJSON(w, lists)
}

func (s *Server) boardCards(w http.ResponseWriter, r *http.Request) {
	if !s.knownBoard(w, r) {
		return
	}
	s.mu.Lock()
	cards := append([]map[string]any{}, s.cards...)
	s.mu.Unlock()
	writeJSON(w, cards)
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["list"]
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findList(id) == nil {
		http.Error(w, "invalid id", http.StatusNotFound)
		return
	}
	cards := []map[string]any{}
	for _, c := range s.cards {
		if c["idList"] == id {
			cards = append(cards, c)
		}
	}
	writeJSON(w, cards)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.findList(mux.Vars(r)["list"])
	if l == nil {
		http.Error(w, "invalid id", http.StatusNotFound)
		return
	}
	writeJSON(w, l)
}

func (s *Server) cardGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findCard(mux.Vars(r)["card"])
	if c == nil {
		http.Error(w, "invalid id", http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("fields") == "desc" {
		out := map[string]any{"id": c["id"]}
		if desc, ok := c["desc"]; ok {
			out["desc"] = desc
		}
		writeJSON(w, out)
		return
	}
	writeJSON(w, c)
}

func (s *Server) cardPut(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findCard(mux.Vars(r)["card"])
	if c == nil {
		http.Error(w, "invalid id", http.StatusNotFound)
		return
	}
	q := r.URL.Query()
	if _, ok := q["desc"]; ok {
		c["desc"] = q.Get("desc")
	}
	writeJSON(w, c)
}

func (s *Server) knownBoard(w http.ResponseWriter, r *http.Request) bool {
	if mux.Vars(r)["board"] != s.BoardID {
		http.Error(w, "board not found", http.StatusNotFound)
		return false
	}
	return true
}

// findList and findCard expect s.mu to be held.
func (s *Server) findList(id string) *board.List {
	for i := range s.lists {
		if s.lists[i].ID == id {
			return &s.lists[i]
		}
	}
	return nil
}

func (s *Server) findCard(id string) map[string]any {
	for _, c := range s.cards {
		if c["id"] == id {
			return c
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
