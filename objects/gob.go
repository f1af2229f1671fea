package objects

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Instances serialize their class reference and namespace.
// The class is resolved again by name when the decoded instance is restored.

type stateKind uint8

const (
	stateNone stateKind = iota
	stateInt
	stateFloat
	stateStr
	stateBool
	stateList
	stateDict
	stateInstance
)

type instanceState struct {
	Module string
	Class  string
	Names  []string
	Values []stateValue
}

type stateValue struct {
	Kind     stateKind
	Int      int64
	Float    float64
	Str      string
	Elems    []stateValue
	Keys     []string
	Instance *instanceState
}

func (i *Instance) state(seen map[*Instance]bool) (*instanceState, error) {
	if seen[i] {
		return nil, fmt.Errorf("cyclic reference to '%s' instance", className(i))
	}
	seen[i] = true
	defer delete(seen, i)

	c := i.Class()
	ret := &instanceState{
		Module: c.Module(),
		Class:  c.Name(),
	}
	for _, name := range i.dict.Keys() {
		v, ok := i.dict.Get(name)
		if !ok {
			continue
		}
		sv, err := encodeState(v, seen)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", c.Name(), name, err)
		}
		ret.Names = append(ret.Names, name)
		ret.Values = append(ret.Values, sv)
	}
	return ret, nil
}

func encodeState(v Value, seen map[*Instance]bool) (stateValue, error) {
	switch v := v.(type) {
	case *NoneType:
		return stateValue{Kind: stateNone}, nil
	case *Int:
		return stateValue{Kind: stateInt, Int: v.V}, nil
	case *Float:
		return stateValue{Kind: stateFloat, Float: v.V}, nil
	case *Str:
		return stateValue{Kind: stateStr, Str: v.V}, nil
	case *Bool:
		sv := stateValue{Kind: stateBool}
		if v.V {
			sv.Int = 1
		}
		return sv, nil
	case *List:
		sv := stateValue{Kind: stateList}
		for _, elem := range v.Elems() {
			e, err := encodeState(elem, seen)
			if err != nil {
				return sv, err
			}
			sv.Elems = append(sv.Elems, e)
		}
		return sv, nil
	case *Dict:
		sv := stateValue{Kind: stateDict}
		for _, key := range v.Keys() {
			elem, _ := v.Get(key)
			e, err := encodeState(elem, seen)
			if err != nil {
				return sv, err
			}
			sv.Keys = append(sv.Keys, key)
			sv.Elems = append(sv.Elems, e)
		}
		return sv, nil
	case *Instance:
		st, err := v.state(seen)
		if err != nil {
			return stateValue{}, err
		}
		return stateValue{Kind: stateInstance, Instance: st}, nil
	}
	return stateValue{}, fmt.Errorf("cannot serialize '%s' object", className(v))
}

func (i *Instance) GobEncode() ([]byte, error) {
	st, err := i.state(make(map[*Instance]bool))
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode keeps the decoded state; the instance is usable after Registry.Restore.
func (i *Instance) GobDecode(data []byte) error {
	st := new(instanceState)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(st); err != nil {
		return err
	}
	i.pending = st
	return nil
}

// ClassResolver finds a class by module and name.
type ClassResolver func(module, name string) (Class, error)

// Restore binds a decoded instance to its class and rebuilds its namespace.
func (r *Registry) Restore(inst *Instance, resolve ClassResolver) error {
	if inst.pending == nil {
		return fmt.Errorf("instance has no decoded state")
	}
	st := inst.pending
	if err := r.restoreInto(inst, st, resolve); err != nil {
		return err
	}
	inst.pending = nil
	return nil
}

func (r *Registry) restoreInto(inst *Instance, st *instanceState, resolve ClassResolver) error {
	c, err := resolve(st.Module, st.Class)
	if err != nil {
		return fmt.Errorf("restore %s.%s: %w", st.Module, st.Class, err)
	}
	inst.Object = newObject(c)
	inst.reg = r
	inst.dict = r.NewDict()
	for idx, name := range st.Names {
		v, err := r.decodeState(st.Values[idx], resolve)
		if err != nil {
			return err
		}
		inst.dict.Set(name, v)
	}
	return nil
}

func (r *Registry) decodeState(sv stateValue, resolve ClassResolver) (Value, error) {
	switch sv.Kind {
	case stateNone:
		return r.None(), nil
	case stateInt:
		return r.Int(sv.Int), nil
	case stateFloat:
		return r.Float(sv.Float), nil
	case stateStr:
		return r.Str(sv.Str), nil
	case stateBool:
		return r.Bool(sv.Int != 0), nil
	case stateList:
		elems := make([]Value, 0, len(sv.Elems))
		for _, e := range sv.Elems {
			v, err := r.decodeState(e, resolve)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return r.NewList(elems...), nil
	case stateDict:
		d := r.NewDict()
		for idx, key := range sv.Keys {
			v, err := r.decodeState(sv.Elems[idx], resolve)
			if err != nil {
				return nil, err
			}
			d.Set(key, v)
		}
		return d, nil
	case stateInstance:
		inst := new(Instance)
		if err := r.restoreInto(inst, sv.Instance, resolve); err != nil {
			return nil, err
		}
		return inst, nil
	}
	return nil, fmt.Errorf("bad state kind %d", sv.Kind)
}
