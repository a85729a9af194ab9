package gameserver

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
	"github.com/cory-johannsen/skirmish/internal/game/world"
)

// errorDomain tags ErrorInfo details produced by this service.
const errorDomain = "skirmish"

type errorMapping struct {
	err    error
	code   codes.Code
	reason string
}

// errorMappings lists every domain error a transport can report. Order
// matters: the first match wins.
var errorMappings = []errorMapping{
	{combat.ErrNoActiveBattle, codes.FailedPrecondition, "NO_ACTIVE_BATTLE"},
	{combat.ErrSkillNotReady, codes.FailedPrecondition, "SKILL_NOT_READY"},
	{combat.ErrEmptySlot, codes.FailedPrecondition, "EMPTY_SLOT"},
	{skill.ErrSlotLevelLocked, codes.FailedPrecondition, "SLOT_LOCKED"},
	{skill.ErrSkillLevelTooLow, codes.FailedPrecondition, "SKILL_LEVEL_TOO_LOW"},
	{skill.ErrInvalidSlot, codes.InvalidArgument, "INVALID_SLOT"},
	{skill.ErrUnknownSkill, codes.NotFound, "UNKNOWN_SKILL"},
	{world.ErrUnknownZone, codes.NotFound, "UNKNOWN_ZONE"},
	{world.ErrNoBoss, codes.NotFound, "NO_BOSS"},
	{ErrZoneLocked, codes.FailedPrecondition, "ZONE_LOCKED"},
	{ErrInvalidSkillType, codes.InvalidArgument, "INVALID_SKILL_TYPE"},
	{ErrInvalidActor, codes.InvalidArgument, "INVALID_ACTOR"},
}

// Classify returns the status code and reason for err. Unknown errors map to
// codes.Internal with an empty reason.
func Classify(err error) (codes.Code, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.code, m.reason
		}
	}
	return codes.Internal, ""
}

// ToStatus converts a domain error into a gRPC status error carrying an
// ErrorInfo detail with its reason.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code, reason := Classify(err)
	if reason == "" {
		return status.Error(codes.Internal, err.Error())
	}
	st, detailErr := status.New(code, err.Error()).WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: errorDomain,
	})
	if detailErr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}

// remoteError carries a server message while unwrapping to the local sentinel.
type remoteError struct {
	msg string
	err error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.err }

// FromStatus restores the domain sentinel encoded by ToStatus so callers can
// use errors.Is across the wire. Errors without a known reason pass through.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != errorDomain {
			continue
		}
		for _, m := range errorMappings {
			if m.reason == info.GetReason() {
				return &remoteError{msg: st.Message(), err: m.err}
			}
		}
	}
	return err
}
