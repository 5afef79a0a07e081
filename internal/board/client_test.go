package board_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/imkarma/herd/internal/board"
	"github.com/imkarma/herd/internal/board/boardtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boardID = "NpRJdfe4"

// seeded returns a fake with two lists and three cards.
func seeded(t *testing.T) *boardtest.Server {
	t.Helper()
	s := boardtest.New(t, boardID)
	s.AddList("l1", "Important people")
	s.AddList("l2", "Politicians")
	s.AddCard(board.Card{ID: "c1", Name: "Bob Smith", Desc: "", ListID: "l1", DateLastActivity: "2023-06-15T10:00:00.000Z"})
	s.AddCard(board.Card{ID: "c2", Name: "Alice Bobson", Desc: "mayor", ListID: "l2", DateLastActivity: "2023-06-15T02:00:00.000Z"})
	s.AddCard(board.Card{ID: "c3", Name: "Carol", Desc: "senator", ListID: "l2", DateLastActivity: "not a date"})
	return s
}

func TestListAllLists(t *testing.T) {
	s := seeded(t)

	res := s.Client().ListAllLists(context.Background())
	require.True(t, res.Usable, res.Message)
	assert.Equal(t, "Important people\nPoliticians", res.Message)
	assert.Len(t, res.Data, 2)
	assert.NoError(t, res.Err())
}

func TestListAllLists_Empty(t *testing.T) {
	s := boardtest.New(t, boardID)

	res := s.Client().ListAllLists(context.Background())
	require.True(t, res.Usable)
	assert.Equal(t, "", res.Message)
}

func TestRequests_CarryCredentialsAndAcceptHeader(t *testing.T) {
	s := seeded(t)

	s.Client().GetCardByName(context.Background(), "carol")

	reqs := s.Requests()
	require.Len(t, reqs, 2)
	for _, r := range reqs {
		assert.Equal(t, boardtest.Key, r.Query["key"])
		assert.Equal(t, boardtest.Token, r.Query["token"])
		assert.Equal(t, "application/json", r.Accept)
	}
	assert.Equal(t, "/boards/"+boardID+"/cards", reqs[0].Path)
	assert.Equal(t, "/lists/l2", reqs[1].Path)
	assert.Equal(t, "name", reqs[1].Query["fields"])
}

func TestFindListIDByName(t *testing.T) {
	s := seeded(t)
	c := s.Client()
	ctx := context.Background()

	res := c.FindListIDByName(ctx, "politicians")
	require.True(t, res.Usable)
	assert.Equal(t, "l2", res.Data)

	// Exact match only, not substring.
	res = c.FindListIDByName(ctx, "Politic")
	require.False(t, res.Usable)
	assert.Equal(t, "No List exists by the name 'Politic'.", res.Message)
	assert.Equal(t, board.KindNotFound, res.Failure.Kind)
	assert.Equal(t, "list", res.Failure.Entity)
	assert.Empty(t, res.Data)
}

func TestListCardsInList(t *testing.T) {
	s := seeded(t)

	res := s.Client().ListCardsInList(context.Background(), "l2")
	require.True(t, res.Usable)
	assert.Equal(t, "Alice Bobson\nCarol", res.Message)
}

func TestListAllCards_SkipsUnnamed(t *testing.T) {
	s := seeded(t)
	s.AddRawCard(map[string]any{"id": "c4", "idList": "l1"})

	res := s.Client().ListAllCards(context.Background())
	require.True(t, res.Usable)
	assert.Len(t, res.Data, 4)
	assert.Equal(t, "Bob Smith\nAlice Bobson\nCarol", res.Message)
}

func TestGetCardByName_FirstSubstringMatchWins(t *testing.T) {
	s := seeded(t)

	// Both "Bob Smith" and "Alice Bobson" contain "bob"; service order decides.
	res := s.Client().GetCardByName(context.Background(), "BOB")
	require.True(t, res.Usable, res.Message)
	assert.Equal(t, "c1", res.Data)
	want := "Name: Bob Smith\nList: Important people\nDescription: \nLast updated: 15 Jun 2023"
	if diff := cmp.Diff(want, res.Message); diff != "" {
		t.Errorf("detail view mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCardByName_DateCrossesDay(t *testing.T) {
	s := seeded(t)

	res := s.Client().GetCardByName(context.Background(), "alice")
	require.True(t, res.Usable)
	assert.Contains(t, res.Message, "Last updated: 14 Jun 2023")
	assert.Contains(t, res.Message, "List: Politicians")
	assert.Contains(t, res.Message, "Description: mayor")
}

func TestGetCardByName_BadDateRendersNA(t *testing.T) {
	s := seeded(t)

	res := s.Client().GetCardByName(context.Background(), "carol")
	require.True(t, res.Usable)
	assert.Contains(t, res.Message, "Last updated: N/A")
}

func TestGetCardByName_NotFound(t *testing.T) {
	s := seeded(t)

	res := s.Client().GetCardByName(context.Background(), "Xyz")
	require.False(t, res.Usable)
	assert.Equal(t, "Name does not exist.", res.Message)
	assert.Equal(t, []string{boardtest.RouteBoardCards}, s.Routes())
}

func TestGetCardByName_ListLookupFailurePropagates(t *testing.T) {
	s := seeded(t)
	s.Fail(boardtest.RouteList, http.StatusInternalServerError)

	res := s.Client().GetCardByName(context.Background(), "carol")
	require.False(t, res.Usable)
	assert.Equal(t, "Err: Bad GET request. Code 500.", res.Message)
}

func TestReadEndpoints_StatusFailures(t *testing.T) {
	tests := []struct {
		route string
		call  func(*board.Client) string
	}{
		{boardtest.RouteBoardLists, func(c *board.Client) string { return c.ListAllLists(context.Background()).Message }},
		{boardtest.RouteBoardLists, func(c *board.Client) string { return c.FindListIDByName(context.Background(), "x").Message }},
		{boardtest.RouteListCards, func(c *board.Client) string { return c.ListCardsInList(context.Background(), "l2").Message }},
		{boardtest.RouteBoardCards, func(c *board.Client) string { return c.ListAllCards(context.Background()).Message }},
		{boardtest.RouteBoardCards, func(c *board.Client) string { return c.GetCardByName(context.Background(), "carol").Message }},
	}

	for _, tc := range tests {
		t.Run(tc.route, func(t *testing.T) {
			s := seeded(t)
			s.Fail(tc.route, http.StatusServiceUnavailable)

			assert.Equal(t, "Err: Bad GET request. Code 503.", tc.call(s.Client()))
		})
	}
}

func TestAppendDescription_EmptyThenAppend(t *testing.T) {
	s := seeded(t)
	c := s.Client()
	ctx := context.Background()

	res := c.AppendDescription(ctx, "c1", "hello")
	require.True(t, res.Usable, res.Message)
	assert.Equal(t, "Successfully updated the description.", res.Message)
	assert.Equal(t, "hello", s.Desc("c1"))

	res = c.AppendDescription(ctx, "c1", "world")
	require.True(t, res.Usable)
	assert.Equal(t, "hello\n\nworld", s.Desc("c1"))

	// Read then write, every time.
	want := []string{
		boardtest.RouteCardGet, boardtest.RouteCardPut,
		boardtest.RouteCardGet, boardtest.RouteCardPut,
	}
	assert.Equal(t, want, s.Routes())
	assert.Equal(t, "desc", s.Requests()[0].Query["fields"])
}

func TestAppendDescription_NonStringDesc(t *testing.T) {
	s := seeded(t)
	s.SetDesc("c2", 42)

	res := s.Client().AppendDescription(context.Background(), "c2", "x")
	require.False(t, res.Usable)
	assert.Equal(t, "Err: The existing data could not be parsed.", res.Message)
	assert.Equal(t, board.KindMalformed, res.Failure.Kind)
	assert.Equal(t, 42, s.Desc("c2"))
	assert.NotContains(t, s.Routes(), boardtest.RouteCardPut)
}

func TestAppendDescription_MissingDesc(t *testing.T) {
	s := boardtest.New(t, boardID)
	s.AddList("l1", "People")
	s.AddRawCard(map[string]any{"id": "c9", "name": "Dave", "idList": "l1"})

	res := s.Client().AppendDescription(context.Background(), "c9", "x")
	require.False(t, res.Usable)
	assert.Equal(t, "Err: The existing data could not be parsed.", res.Message)
}

func TestAppendDescription_StatusFailures(t *testing.T) {
	tests := []struct {
		route  string
		status int
		want   string
	}{
		{boardtest.RouteCardGet, http.StatusNotFound, "Err: Bad GET request. Code 404."},
		{boardtest.RouteCardPut, http.StatusForbidden, "Err: Bad PUT request. Code 403."},
	}

	for _, tc := range tests {
		t.Run(tc.route, func(t *testing.T) {
			s := seeded(t)
			s.Fail(tc.route, tc.status)

			res := s.Client().AppendDescription(context.Background(), "c2", "x")
			require.False(t, res.Usable)
			assert.Equal(t, tc.want, res.Message)
			assert.Equal(t, board.KindHTTPStatus, res.Failure.Kind)
			assert.Equal(t, tc.status, res.Failure.Status)
			assert.Equal(t, "mayor", s.Desc("c2"))
		})
	}
}

func TestOverwriteDescription(t *testing.T) {
	s := seeded(t)

	res := s.Client().OverwriteDescription(context.Background(), "c2", "replaced")
	require.True(t, res.Usable)
	assert.Equal(t, "replaced", s.Desc("c2"))
	assert.Equal(t, []string{boardtest.RouteCardPut}, s.Routes())
}

func TestBadCredentials(t *testing.T) {
	s := seeded(t)
	c := board.New(board.Config{BaseURL: s.URL, BoardID: boardID, Key: "nope", Token: "nope"})

	res := c.ListAllLists(context.Background())
	require.False(t, res.Usable)
	assert.Equal(t, "Err: Bad GET request. Code 401.", res.Message)
}

func TestUnknownBoard(t *testing.T) {
	s := seeded(t)
	c := board.New(board.Config{BaseURL: s.URL, BoardID: "other", Key: boardtest.Key, Token: boardtest.Token})

	res := c.ListAllCards(context.Background())
	require.False(t, res.Usable)
	assert.Equal(t, "Err: Bad GET request. Code 404.", res.Message)
}

func TestNetworkFailure_SameMessageEverywhere(t *testing.T) {
	c := board.New(board.Config{
		BaseURL: boardtest.UnreachableURL(t),
		BoardID: boardID,
		Key:     boardtest.Key,
		Token:   boardtest.Token,
		Timeout: 2 * time.Second,
	})
	ctx := context.Background()

	messages := []string{
		c.ListAllLists(ctx).Message,
		c.FindListIDByName(ctx, "x").Message,
		c.ListCardsInList(ctx, "l1").Message,
		c.ListAllCards(ctx).Message,
		c.GetCardByName(ctx, "x").Message,
		c.AppendDescription(ctx, "c1", "x").Message,
		c.OverwriteDescription(ctx, "c1", "x").Message,
	}
	for i, msg := range messages {
		assert.Equal(t, board.ConnectionFailureMessage, msg, "call %d", i)
	}

	res := c.ListAllLists(ctx)
	var f *board.Failure
	require.True(t, errors.As(res.Err(), &f))
	assert.Equal(t, board.KindNetwork, f.Kind)
	assert.NotNil(t, errors.Unwrap(f))
}

func TestMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()
	c := board.New(board.Config{BaseURL: srv.URL, BoardID: boardID})

	res := c.ListAllLists(context.Background())
	require.False(t, res.Usable)
	assert.Equal(t, board.KindMalformed, res.Failure.Kind)
	assert.Equal(t, "Err: The board returned data that could not be parsed.", res.Message)
}

func TestCancelledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := s.Client().ListAllLists(ctx)
	require.False(t, res.Usable)
	assert.Equal(t, board.KindNetwork, res.Failure.Kind)
}
