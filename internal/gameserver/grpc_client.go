package gameserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// GRPCClient implements Battler against a remote BattleService.
type GRPCClient struct {
	conn grpc.ClientConnInterface
}

// NewGRPCClient wraps an established client connection.
//
// Precondition: conn must be non-nil.
func NewGRPCClient(conn grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{conn: conn}
}

func (c *GRPCClient) call(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+BattleServiceName+"/"+method, in, out); err != nil {
		return nil, FromStatus(err)
	}
	return out, nil
}

func (c *GRPCClient) battle(ctx context.Context, method string, req map[string]any) (*BattleView, error) {
	out, err := c.call(ctx, method, req)
	if err != nil {
		return nil, err
	}
	return decodeBattleView(out)
}

// StartFight implements Battler.
func (c *GRPCClient) StartFight(ctx context.Context, actor, zoneID string, boss bool) (*BattleView, error) {
	return c.battle(ctx, "StartFight", map[string]any{"actor_id": actor, "zone_id": zoneID, "boss": boss})
}

// Attack implements Battler.
func (c *GRPCClient) Attack(ctx context.Context, actor string) (*BattleView, error) {
	return c.battle(ctx, "Attack", map[string]any{"actor_id": actor})
}

// UseSkill implements Battler.
func (c *GRPCClient) UseSkill(ctx context.Context, actor string, slot int) (*BattleView, error) {
	return c.battle(ctx, "UseSkill", map[string]any{"actor_id": actor, "slot": slot + 1})
}

// Retreat implements Battler.
func (c *GRPCClient) Retreat(ctx context.Context, actor string) (*BattleView, error) {
	return c.battle(ctx, "Retreat", map[string]any{"actor_id": actor})
}

// EquipSkill implements Battler.
func (c *GRPCClient) EquipSkill(ctx context.Context, actor string, slot int, skillID string) (*EquipView, error) {
	out, err := c.call(ctx, "EquipSkill", map[string]any{"actor_id": actor, "slot": slot + 1, "skill_id": skillID})
	if err != nil {
		return nil, err
	}
	return decodeEquip(out), nil
}

// ListSkills implements Battler.
func (c *GRPCClient) ListSkills(ctx context.Context, actor string, t skill.Type) (*SkillList, error) {
	out, err := c.call(ctx, "ListSkills", map[string]any{"actor_id": actor, "type": string(t)})
	if err != nil {
		return nil, err
	}
	return decodeSkillList(out), nil
}

// ListZones implements Battler.
func (c *GRPCClient) ListZones(ctx context.Context) ([]ZoneView, error) {
	out, err := c.call(ctx, "ListZones", map[string]any{})
	if err != nil {
		return nil, err
	}
	return decodeZones(out), nil
}

// Sheet implements Battler.
func (c *GRPCClient) Sheet(ctx context.Context, actor string) (*SheetView, error) {
	out, err := c.call(ctx, "GetSheet", map[string]any{"actor_id": actor})
	if err != nil {
		return nil, err
	}
	return decodeSheet(out), nil
}
