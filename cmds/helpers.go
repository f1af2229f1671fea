package cmds

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
)

// Var defines name to set the value and "name." to reset it.
// The first non-empty environment variable in envs gives the initial value.
func Var[T any](name string, envs ...string) *T {
	var value T
	if v, ok := fromEnv[T](envs); ok {
		value = v
	}

	Define(name, Func(func(v T) {
		value = v
	}))

	var zero T
	Define(name+".", Func(func() {
		value = zero
	}))

	return &value
}

// Switch defines name to turn on and "!name" to turn off.
func Switch(name string, envs ...string) *bool {
	var value bool
	if v, ok := fromEnv[bool](envs); ok {
		value = v
	}

	Define(name, Func(func() {
		value = true
	}))

	Define("!"+name, Func(func() {
		value = false
	}))

	return &value
}

// Collect defines name to append a value.
// Environment variables hold lists separated by the os path list separator.
func Collect[T any](name string, envs ...string) *[]T {
	var value []T
	for _, env := range envs {
		for _, str := range filepath.SplitList(os.Getenv(env)) {
			v, err := getArg(reflect.TypeFor[T](), []string{str})
			if err != nil {
				panic(fmt.Errorf("environment variable %s: %w", env, err))
			}
			value = append(value, v.Interface().(T))
		}
	}

	Define(name, Func(func(v T) {
		value = append(value, v)
	}))
	return &value
}

func fromEnv[T any](envs []string) (ret T, ok bool) {
	for _, env := range envs {
		str := os.Getenv(env)
		if str == "" {
			continue
		}
		v, err := getArg(reflect.TypeFor[T](), []string{str})
		if err != nil {
			panic(fmt.Errorf("environment variable %s: %w", env, err))
		}
		return v.Interface().(T), true
	}
	return
}
