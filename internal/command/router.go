// Package command interprets "?keyword (arg)..." strings and runs them
// against the board, producing the single line of text shown to the user.
package command

import (
	"context"
	"fmt"

	"github.com/imkarma/herd/internal/board"
	"go.uber.org/zap"
)

// Board is the set of board operations the router composes.
// *board.Client satisfies it.
type Board interface {
	ListAllLists(ctx context.Context) board.Result[[]board.List]
	FindListIDByName(ctx context.Context, name string) board.Result[string]
	ListCardsInList(ctx context.Context, listID string) board.Result[[]board.Card]
	ListAllCards(ctx context.Context) board.Result[[]board.Card]
	GetCardByName(ctx context.Context, name string) board.Result[string]
	AppendDescription(ctx context.Context, cardID, text string) board.Result[string]
}

// anyArgs marks a command that ignores its arguments.
const anyArgs = -1

type handler func(ctx context.Context, args []string) string

type spec struct {
	arity int
	run   handler
}

// Router dispatches parsed commands to board operations.
type Router struct {
	board    Board
	log      *zap.Logger
	commands map[string]spec
}

// New creates a router over b. A nil logger disables logging.
func New(b Board, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{board: b, log: log}
	r.commands = map[string]spec{
		"help":     {anyArgs, r.help},
		"info":     {1, r.info},
		"names":    {1, r.names},
		"lists":    {0, r.lists},
		"allnames": {0, r.allNames},
		"update":   {2, r.update},
	}
	return r
}

// Execute runs one command string and returns the text to display.
// Every failure, including a panic in a collaborator, comes back as text.
func (r *Router) Execute(ctx context.Context, input string) (out string) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("command panicked", zap.String("panic", fmt.Sprint(p)))
			out = msgInternal
		}
	}()

	inv, ok := Parse(input)
	if !ok {
		return msgNoMarker
	}

	cmd, ok := r.commands[inv.Keyword]
	if !ok {
		r.log.Debug("unknown command", zap.String("keyword", inv.Keyword))
		return msgInvalid
	}
	if cmd.arity != anyArgs && len(inv.Args) != cmd.arity {
		r.log.Debug("wrong argument count",
			zap.String("keyword", inv.Keyword),
			zap.Int("want", cmd.arity),
			zap.Int("got", len(inv.Args)))
		return msgWrongUsage
	}

	r.log.Debug("dispatch", zap.String("keyword", inv.Keyword), zap.Int("args", len(inv.Args)))
	return cmd.run(ctx, inv.Args)
}

func (r *Router) help(context.Context, []string) string {
	return HelpText
}

func (r *Router) info(ctx context.Context, args []string) string {
	return r.board.GetCardByName(ctx, args[0]).Message
}

func (r *Router) names(ctx context.Context, args []string) string {
	list := r.board.FindListIDByName(ctx, args[0])
	if !list.Usable {
		return list.Message
	}
	return r.board.ListCardsInList(ctx, list.Data).Message
}

func (r *Router) lists(ctx context.Context, _ []string) string {
	return r.board.ListAllLists(ctx).Message
}

func (r *Router) allNames(ctx context.Context, _ []string) string {
	return r.board.ListAllCards(ctx).Message
}

// update resolves the card, then appends to its description. The steps run
// strictly in order and the first failing one supplies the message.
func (r *Router) update(ctx context.Context, args []string) string {
	card := r.board.GetCardByName(ctx, args[0])
	if !card.Usable {
		return card.Message
	}
	return r.board.AppendDescription(ctx, card.Data, args[1]).Message
}
