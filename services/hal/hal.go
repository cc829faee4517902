// services/hal/hal.go
package hal

import (
	"context"
	"time"

	"flightcode-go/board"
	"flightcode-go/bus"
	"flightcode-go/errcode"
	"flightcode-go/services/boardinit"
	"flightcode-go/services/hal/internal/consts"
	"flightcode-go/types"
	"flightcode-go/x/ctxlog"
)

var (
	TopicState         = bus.T(consts.TokHAL, consts.TokBoard, consts.TokState)
	TopicQueryResolve  = bus.T(consts.TokHAL, consts.TokBoard, consts.TokQuery, consts.QueryResolve)
	TopicQueryCapacity = bus.T(consts.TokHAL, consts.TokBoard, consts.TokQuery, consts.QueryCapacity)
)

// TopicRole is the retained info topic for role r.
func TopicRole(r types.Role) bus.Topic {
	return bus.T(consts.TokHAL, consts.TokBoard, consts.TokRole, r.String())
}

// Service owns board bring-up and publishes the resulting registry on the bus.
type Service struct {
	conn *bus.Connection
	reg  *board.Registry
	fac  boardinit.Factories
	now  func() time.Time
}

func New(conn *bus.Connection, reg *board.Registry, fac boardinit.Factories) *Service {
	return &Service{conn: conn, reg: reg, fac: fac, now: time.Now}
}

// Registry returns the registry this service brings up.
func (s *Service) Registry() *board.Registry { return s.reg }

// Boot runs board init for plan. On success every bound role is published
// (retained) before the ready state, so a subscriber that sees "ready" can
// read every role. A fatal error publishes "halted" and is returned; the
// registry then stays unsealed and no consumer sees a partial mapping.
func (s *Service) Boot(ctx context.Context, plan boardinit.Plan) error {
	log := ctxlog.FromContext(ctx)
	s.publishState(types.LevelBooting, "")

	if err := boardinit.Run(ctx, s.reg, plan, s.fac); err != nil {
		s.publishState(types.LevelHalted, string(errcode.Of(err)))
		return err
	}

	for _, b := range s.reg.Bindings() {
		s.conn.Publish(s.conn.NewMessage(TopicRole(b.Role), types.RoleInfo{
			Role:  b.Role.String(),
			Class: b.Role.Class().String(),
			ID:    b.ID,
		}, true))
	}
	s.publishState(types.LevelReady, "")
	log.Info("hal ready", "variant", s.reg.Variant().String())
	return nil
}

// Serve answers resolve/capacity queries until ctx ends.
func (s *Service) Serve(ctx context.Context) {
	resolveSub := s.conn.Subscribe(TopicQueryResolve)
	capSub := s.conn.Subscribe(TopicQueryCapacity)
	defer s.conn.Unsubscribe(resolveSub)
	defer s.conn.Unsubscribe(capSub)

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-resolveSub.Channel():
			if !ok {
				return
			}
			s.conn.Reply(m, s.onResolve(m.Payload), false)
		case m, ok := <-capSub.Channel():
			if !ok {
				return
			}
			s.conn.Reply(m, s.onCapacity(m.Payload), false)
		}
	}
}

func (s *Service) onResolve(payload any) any {
	var name string
	switch q := payload.(type) {
	case types.ResolveQuery:
		name = q.Role
	case string:
		name = q
	}
	role, ok := types.ParseRole(name)
	if !ok {
		return types.ErrorReply{OK: false, Error: string(errcode.UnknownRole)}
	}
	if !s.reg.Sealed() {
		return types.ErrorReply{OK: false, Error: string(errcode.NotReady)}
	}
	id, present := s.reg.Resolve(role)
	return types.ResolveReply{Role: role.String(), ID: id, Present: present}
}

func (s *Service) onCapacity(payload any) any {
	var name string
	switch q := payload.(type) {
	case types.CapacityQuery:
		name = q.Class
	case string:
		name = q
	}
	c, ok := types.ParseClass(name)
	if !ok {
		return types.ErrorReply{OK: false, Error: string(errcode.UnknownClass)}
	}
	return types.CapacityReply{Class: c.String(), Capacity: s.reg.Capacity(c), Used: s.reg.Count(c)}
}

func (s *Service) publishState(level, code string) {
	s.conn.Publish(s.conn.NewMessage(TopicState, types.BoardState{
		Level:   level,
		Variant: s.reg.Variant().String(),
		Error:   code,
		TS:      s.now().UnixNano(),
	}, true))
}
