package objects

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// OverloadGroup is the set of host signatures reachable under one guest name,
// kept sorted most specific first.
type OverloadGroup struct {
	Object
	reg  *Registry
	name string
	mu   sync.Mutex
	sigs atomic.Pointer[[]*Signature]
}

var _ Member = new(OverloadGroup)

func (r *Registry) NewOverloadGroup(name string, sigs ...*Signature) *OverloadGroup {
	g := &OverloadGroup{
		Object: newObject(r.builtins.overloads),
		reg:    r,
		name:   name,
	}
	g.sigs.Store(new([]*Signature))
	for _, sig := range sigs {
		g.Add(sig)
	}
	return g
}

func (g *OverloadGroup) Name() string {
	return g.name
}

// Signatures returns a snapshot in resolution order.
func (g *OverloadGroup) Signatures() []*Signature {
	return *g.sigs.Load()
}

// Add inserts sig at its specificity position.
// It returns Same when an equivalent signature is already reachable and Replace when sig superseded one.
func (g *OverloadGroup) Add(sig *Signature) Order {
	g.mu.Lock()
	defer g.mu.Unlock()
	old := *g.sigs.Load()
	for i, existing := range old {
		switch sig.Compare(existing) {
		case Same:
			return Same
		case Replace:
			sigs := slices.Clone(old)
			sigs[i] = sig
			g.sigs.Store(&sigs)
			return Replace
		case Before:
			sigs := slices.Insert(slices.Clone(old), i, sig)
			g.sigs.Store(&sigs)
			return Before
		}
	}
	sigs := append(slices.Clone(old), sig)
	g.sigs.Store(&sigs)
	return After
}

// Handles reports whether adding sig would be a no-op.
func (g *OverloadGroup) Handles(sig *Signature) bool {
	for _, existing := range g.Signatures() {
		if sig.Compare(existing) == Same {
			return true
		}
	}
	return false
}

func (g *OverloadGroup) copyAs(name string) *OverloadGroup {
	ret := &OverloadGroup{
		Object: newObject(g.reg.builtins.overloads),
		reg:    g.reg,
		name:   name,
	}
	sigs := slices.Clone(g.Signatures())
	ret.sigs.Store(&sigs)
	return ret
}

func (g *OverloadGroup) isMember() {}

func (g *OverloadGroup) DescrGet(ctx context.Context, instance Value, owner Class) (Value, error) {
	if instance == nil {
		return g, nil
	}
	return g.reg.NewBoundMethod(g, instance), nil
}

// Call resolves the unbound form, where an instance receiver is taken from args.
func (g *OverloadGroup) Call(ctx context.Context, args []Value, keywords []string) (Value, error) {
	return g.Invoke(ctx, nil, args, keywords)
}

const (
	badArgCount       = -2
	unconvertibleSelf = -1
)

type callData struct {
	sig       *Signature
	self      reflect.Value
	selfValue Value
	args      []reflect.Value
}

type callDiag struct {
	errArg int
}

// Invoke resolves and calls the most specific applicable signature.
// self is nil for unbound calls.
func (g *OverloadGroup) Invoke(ctx context.Context, self Value, args []Value, keywords []string) (Value, error) {
	diag := &callDiag{
		errArg: badArgCount,
	}
	var match, variadicMatch *callData
	for _, sig := range g.Signatures() {
		data := &callData{
			sig: sig,
		}
		ok, err := sig.match(ctx, g.reg, self, args, keywords, data, diag)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if sig.variadic {
			if variadicMatch == nil {
				variadicMatch = data
			}
			continue
		}
		match = data
		break
	}
	if match == nil {
		match = variadicMatch
	}
	if match == nil {
		err := g.failure(self, args, keywords, diag.errArg)
		if g.reg.config.LogDispatch {
			g.reg.logger.DebugContext(ctx, "overload resolution failed",
				"name", g.name,
				"args", len(args),
				"error", err,
			)
		}
		return nil, err
	}

	if self == nil && !strings.HasPrefix(g.name, g.reg.superPrefix()) {
		if inst, ok := match.selfValue.(*Instance); ok {
			if _, native := inst.Class().(*NativeClass); !native {
				if member, owner := inst.Class().Lookup(g.reg.superPrefix() + g.name); member != nil {
					fn, err := member.DescrGet(ctx, nil, owner)
					if err != nil {
						return nil, err
					}
					return Call(ctx, fn, args, keywords)
				}
			}
		}
	}

	return match.sig.invoke(ctx, g.reg, match.self, match.args)
}

func (s *Signature) match(ctx context.Context, reg *Registry, self Value, args []Value, keywords []string, data *callData, diag *callDiag) (bool, error) {
	if s.convention != VarargArrayWithKeywords && len(keywords) > 0 {
		return false, nil
	}

	if s.static {
		self = nil
	} else if self == nil {
		if len(args) == 0 {
			return false, nil
		}
		self = args[0]
		args = args[1:]
	}
	data.selfValue = self

	convertSelf := func() (bool, error) {
		if self == nil {
			return true, nil
		}
		rv, err := ToHost(ctx, self, s.declaring)
		if errors.Is(err, ErrNoConversion) {
			return false, nil
		} else if err != nil {
			return false, err
		}
		data.self = rv
		return true, nil
	}

	if s.convention != Standard {
		if ok, err := convertSelf(); !ok || err != nil {
			return false, err
		}
		data.args = append(data.args, reflect.ValueOf(slices.Clone(args)))
		if s.convention == VarargArrayWithKeywords {
			data.args = append(data.args, reflect.ValueOf(slices.Clone(keywords)))
		}
		return true, nil
	}

	if s.variadic {
		args = boxVariadic(reg, args, len(s.params))
	}
	if len(args) != len(s.params) {
		return false, nil
	}

	diag.errArg = max(diag.errArg, unconvertibleSelf)
	if ok, err := convertSelf(); !ok || err != nil {
		return false, err
	}

	for i, arg := range args {
		rv, err := ToHost(ctx, arg, s.params[i])
		if errors.Is(err, ErrNoConversion) {
			diag.errArg = max(diag.errArg, i)
			return false, nil
		} else if err != nil {
			return false, err
		}
		data.args = append(data.args, rv)
	}
	return true, nil
}

// boxVariadic collects trailing arguments of a host variadic call into one List,
// unless the final argument already is a List.
func boxVariadic(reg *Registry, args []Value, numParams int) []Value {
	if numParams == 0 {
		return args
	}
	if len(args) == numParams {
		if _, ok := args[len(args)-1].(*List); ok {
			return args
		}
	}
	fixed := numParams - 1
	if len(args) < fixed {
		return args
	}
	ret := make([]Value, 0, numParams)
	ret = append(ret, args[:fixed]...)
	ret = append(ret, reg.NewList(args[fixed:]...))
	return ret
}
