package gameserver

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// BattleServiceName is the fully-qualified gRPC service name.
const BattleServiceName = "skirmish.v1.BattleService"

// BattleServiceServer is the server side of skirmish.v1.BattleService, whose
// schema is api/proto/skirmish/v1/battle.proto. Every method takes and returns
// a structpb.Struct.
type BattleServiceServer interface {
	StartFight(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Attack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UseSkill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Retreat(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EquipSkill(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSkills(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListZones(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSheet(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(BattleServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unary builds a MethodDesc decoding a structpb.Struct request.
func unary(name string, call structMethod) grpc.MethodDesc {
	fullMethod := "/" + BattleServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BattleServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BattleServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// BattleServiceDesc describes skirmish.v1.BattleService for grpc.Server.RegisterService.
var BattleServiceDesc = grpc.ServiceDesc{
	ServiceName: BattleServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("StartFight", BattleServiceServer.StartFight),
		unary("Attack", BattleServiceServer.Attack),
		unary("UseSkill", BattleServiceServer.UseSkill),
		unary("Retreat", BattleServiceServer.Retreat),
		unary("EquipSkill", BattleServiceServer.EquipSkill),
		unary("ListSkills", BattleServiceServer.ListSkills),
		unary("ListZones", BattleServiceServer.ListZones),
		unary("GetSheet", BattleServiceServer.GetSheet),
	},
	Metadata: "skirmish/v1/battle.proto",
}

// RegisterBattleServiceServer registers srv on s.
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&BattleServiceDesc, srv)
}

// GRPCServer adapts a Battler to BattleServiceServer.
type GRPCServer struct {
	battler Battler
	logger  *zap.Logger
}

// NewGRPCServer creates a GRPCServer.
//
// Precondition: battler and logger must be non-nil.
func NewGRPCServer(battler Battler, logger *zap.Logger) *GRPCServer {
	return &GRPCServer{battler: battler, logger: logger}
}

func actorOf(req *structpb.Struct) string {
	return fields(req.GetFields()).str("actor_id")
}

// slotOf reads the one-based "slot" field and returns it zero-based.
func slotOf(req *structpb.Struct) int {
	return fields(req.GetFields()).num("slot") - 1
}

func (s *GRPCServer) respond(method string, m map[string]any, err error) (*structpb.Struct, error) {
	if err != nil {
		code, _ := Classify(err)
		if code == codes.Internal {
			s.logger.Error("battle rpc failed", zap.String("method", method), zap.Error(err))
		}
		return nil, ToStatus(err)
	}
	out, err := toStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *GRPCServer) battle(method string, v *BattleView, err error) (*structpb.Struct, error) {
	if err != nil {
		return s.respond(method, nil, err)
	}
	return s.respond(method, BattleViewMap(v), nil)
}

// StartFight implements BattleServiceServer. Request: actor_id, zone_id, boss.
func (s *GRPCServer) StartFight(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fields(req.GetFields())
	v, err := s.battler.StartFight(ctx, f.str("actor_id"), f.str("zone_id"), f.flag("boss"))
	return s.battle("StartFight", v, err)
}

// Attack implements BattleServiceServer. Request: actor_id.
func (s *GRPCServer) Attack(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, err := s.battler.Attack(ctx, actorOf(req))
	return s.battle("Attack", v, err)
}

// UseSkill implements BattleServiceServer. Request: actor_id, slot (1-based).
func (s *GRPCServer) UseSkill(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, err := s.battler.UseSkill(ctx, actorOf(req), slotOf(req))
	return s.battle("UseSkill", v, err)
}

// Retreat implements BattleServiceServer. Request: actor_id.
func (s *GRPCServer) Retreat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, err := s.battler.Retreat(ctx, actorOf(req))
	return s.battle("Retreat", v, err)
}

// EquipSkill implements BattleServiceServer. Request: actor_id, slot (1-based), skill_id.
func (s *GRPCServer) EquipSkill(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	e, err := s.battler.EquipSkill(ctx, actorOf(req), slotOf(req), fields(req.GetFields()).str("skill_id"))
	if err != nil {
		return s.respond("EquipSkill", nil, err)
	}
	return s.respond("EquipSkill", EquipMap(e), nil)
}

// ListSkills implements BattleServiceServer. Request: actor_id, type.
func (s *GRPCServer) ListSkills(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	l, err := s.battler.ListSkills(ctx, actorOf(req), skill.Type(fields(req.GetFields()).str("type")))
	if err != nil {
		return s.respond("ListSkills", nil, err)
	}
	return s.respond("ListSkills", SkillListMap(l), nil)
}

// ListZones implements BattleServiceServer. Request: empty.
func (s *GRPCServer) ListZones(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	zones, err := s.battler.ListZones(ctx)
	if err != nil {
		return s.respond("ListZones", nil, err)
	}
	return s.respond("ListZones", ZonesMap(zones), nil)
}

// GetSheet implements BattleServiceServer. Request: actor_id.
func (s *GRPCServer) GetSheet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sheet, err := s.battler.Sheet(ctx, actorOf(req))
	if err != nil {
		return s.respond("GetSheet", nil, err)
	}
	return s.respond("GetSheet", SheetMap(sheet), nil)
}

// LoggingInterceptor logs every call's method, duration and status code.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("rpc",
			zap.String("method", info.FullMethod),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("code", status.Code(err).String()),
		)
		return resp, err
	}
}
