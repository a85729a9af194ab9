// Package handlers implements the Telnet battle session on top of a Battler.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"

	"github.com/cory-johannsen/skirmish/internal/frontend/telnet"
	"github.com/cory-johannsen/skirmish/internal/game/command"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/gameserver"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// maxNameAttempts bounds how often a client may pick a bad name.
const maxNameAttempts = 5

var (
	validName = regexp.MustCompile(`^[A-Za-z0-9_-]{2,24}$`)

	errTooManyAttempts = errors.New("too many invalid names")
)

// BattleHandler runs one Telnet client's battle session. It satisfies
// telnet.SessionHandler.
type BattleHandler struct {
	battler  gameserver.Battler
	presence *session.Manager
	registry *command.Registry
	logger   *zap.Logger
}

// NewBattleHandler creates a BattleHandler.
//
// Precondition: battler, presence, registry and logger must be non-nil.
func NewBattleHandler(battler gameserver.Battler, presence *session.Manager, registry *command.Registry, logger *zap.Logger) *BattleHandler {
	return &BattleHandler{battler: battler, presence: presence, registry: registry, logger: logger}
}

// HandleSession greets the client, claims an actor name and runs the
// command loop until quit, disconnect or ctx cancellation.
//
// Postcondition: the actor is disconnected from presence on return. An open
// battle is left to idle eviction.
func (h *BattleHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	if err := conn.WriteLines(
		telnet.Colorize(telnet.Bold+telnet.BrightRed, "Welcome to Skirmish!"),
		"Fight monsters, earn XP and gold, and equip new skills.",
	); err != nil {
		return err
	}

	actor, err := h.claimName(conn)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.presence.Disconnect(actor); err != nil {
			h.logger.Warn("disconnecting actor", observability.Actor(actor), zap.Error(err))
		}
	}()

	logger := h.logger.With(observability.Actor(actor))
	logger.Info("actor connected", zap.String("remote_addr", conn.RemoteAddr().String()))
	if err := conn.WriteLines(
		telnet.Colorf(telnet.Green, "Hello, %s!", actor),
		"Type "+telnet.Colorize(telnet.BrightCyan, "zones")+" to see where to fight, or "+
			telnet.Colorize(telnet.BrightCyan, "help")+" for every command.",
	); err != nil {
		return err
	}

	return h.commandLoop(ctx, conn, actor, logger)
}

// claimName prompts until the client supplies a valid, unused name and
// registers it with presence.
func (h *BattleHandler) claimName(conn *telnet.Conn) (string, error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		if err := conn.WritePrompt("What is your name? "); err != nil {
			return "", err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return "", fmt.Errorf("reading name: %w", err)
		}
		name := strings.TrimSpace(line)
		if !validName.MatchString(name) {
			_ = conn.WriteLine(RenderError("Names are 2-24 letters, digits, '-' or '_'."))
			continue
		}
		actor := strings.ToLower(name)
		if err := h.presence.Connect(actor, conn.RemoteAddr().String()); err != nil {
			if errors.Is(err, session.ErrAlreadyConnected) {
				_ = conn.WriteLine(RenderError("That name is already playing."))
				continue
			}
			return "", err
		}
		return actor, nil
	}
	_ = conn.WriteLine(RenderError("Too many attempts. Goodbye."))
	return "", errTooManyAttempts
}

func (h *BattleHandler) commandLoop(ctx context.Context, conn *telnet.Conn, actor string, logger *zap.Logger) error {
	prompt := telnet.Colorf(telnet.BrightCyan, "[%s]> ", actor)
	cc := &commandContext{battler: h.battler, registry: h.registry, actor: actor}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := conn.WritePrompt(prompt); err != nil {
			return err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		res, err := dispatch(ctx, cc, line)
		if err != nil {
			res.lines = []string{h.describeError(logger, line, err)}
		}
		if err := conn.WriteLines(res.lines...); err != nil {
			return err
		}
		if res.quit {
			logger.Info("actor quit")
			return nil
		}
	}
}

// describeError renders err for the player. Domain errors are shown
// verbatim; anything else is logged and replaced with a generic message.
func (h *BattleHandler) describeError(logger *zap.Logger, line string, err error) string {
	if code, _ := gameserver.Classify(err); code != codes.Internal {
		return RenderError(err.Error())
	}
	logger.Error("command failed", zap.String("input", line), zap.Error(err))
	return RenderError("Something went wrong. Please try again.")
}
