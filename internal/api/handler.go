// Package api exposes the battle service over a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"

	"github.com/cory-johannsen/skirmish/internal/game/skill"
	"github.com/cory-johannsen/skirmish/internal/gameserver"
)

const (
	keyError  = "error"
	keyReason = "reason"
)

var errBadSlot = errors.New("slot must be a number")

// HealthFunc reports whether the backing services are reachable.
type HealthFunc func(ctx context.Context) error

// BattleHandler groups the battle HTTP handlers.
type BattleHandler struct {
	battler gameserver.Battler
	health  HealthFunc
	logger  *zap.Logger
}

// NewBattleHandler creates a BattleHandler. A nil health always reports ok.
func NewBattleHandler(battler gameserver.Battler, health HealthFunc, logger *zap.Logger) *BattleHandler {
	if health == nil {
		health = func(context.Context) error { return nil }
	}
	return &BattleHandler{battler: battler, health: health, logger: logger}
}

type fightPayload struct {
	ZoneID string `json:"zone_id"`
	Boss   bool   `json:"boss"`
}

type equipPayload struct {
	SkillID string `json:"skill_id"`
}

// httpStatus maps a gRPC code to the HTTP status reported for it.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail renders err as a JSON error body. Errors returned by a remote
// Battler already carry their classification.
func (h *BattleHandler) fail(c *gin.Context, err error) {
	code, reason := gameserver.Classify(err)
	status := httpStatus(code)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{keyError: "internal error"})
		return
	}
	c.JSON(status, gin.H{keyError: err.Error(), keyReason: reason})
}

// slotParam converts the one-based :slot path parameter to a zero-based index.
// Range checks are left to the service.
func slotParam(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return 0, errBadSlot
	}
	return n - 1, nil
}

func (h *BattleHandler) battle(c *gin.Context, status int, v *gameserver.BattleView, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, gameserver.BattleViewMap(v))
}

// StartFight opens a battle in the requested zone.
func (h *BattleHandler) StartFight(c *gin.Context) {
	var req fightPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.ZoneID == "" {
		c.JSON(http.StatusBadRequest, gin.H{keyError: "zone_id is required"})
		return
	}
	v, err := h.battler.StartFight(c.Request.Context(), c.Param("actor"), req.ZoneID, req.Boss)
	h.battle(c, http.StatusCreated, v, err)
}

// Attack performs a basic attack.
func (h *BattleHandler) Attack(c *gin.Context) {
	v, err := h.battler.Attack(c.Request.Context(), c.Param("actor"))
	h.battle(c, http.StatusOK, v, err)
}

// UseSkill activates the skill in the :slot loadout slot.
func (h *BattleHandler) UseSkill(c *gin.Context) {
	slot, err := slotParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{keyError: err.Error()})
		return
	}
	v, err := h.battler.UseSkill(c.Request.Context(), c.Param("actor"), slot)
	h.battle(c, http.StatusOK, v, err)
}

// Retreat abandons the current fight.
func (h *BattleHandler) Retreat(c *gin.Context) {
	v, err := h.battler.Retreat(c.Request.Context(), c.Param("actor"))
	h.battle(c, http.StatusOK, v, err)
}

// EquipSkill binds a skill to the :slot loadout slot.
func (h *BattleHandler) EquipSkill(c *gin.Context) {
	slot, err := slotParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{keyError: err.Error()})
		return
	}
	var req equipPayload
	if err := c.ShouldBindJSON(&req); err != nil || req.SkillID == "" {
		c.JSON(http.StatusBadRequest, gin.H{keyError: "skill_id is required"})
		return
	}
	ev, err := h.battler.EquipSkill(c.Request.Context(), c.Param("actor"), slot, req.SkillID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gameserver.EquipMap(ev))
}

// ListSkills lists equippable skills of ?type= (default attack).
func (h *BattleHandler) ListSkills(c *gin.Context) {
	t := skill.Type(c.DefaultQuery("type", string(skill.TypeAttack)))
	list, err := h.battler.ListSkills(c.Request.Context(), c.Param("actor"), t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gameserver.SkillListMap(list))
}

// Sheet returns the character sheet.
func (h *BattleHandler) Sheet(c *gin.Context) {
	sheet, err := h.battler.Sheet(c.Request.Context(), c.Param("actor"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gameserver.SheetMap(sheet))
}

// ListZones returns every battle zone.
func (h *BattleHandler) ListZones(c *gin.Context) {
	zones, err := h.battler.ListZones(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gameserver.ZonesMap(zones))
}

// Health reports service health.
func (h *BattleHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", keyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
