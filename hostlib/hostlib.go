// Package hostlib holds sample host types exposed to guest code.
package hostlib

//go:generate go run ../cmd/hostobj-gen -in classes.cue -out classes_gen.go

import (
	"fmt"

	"github.com/reusee/hostobj/objects"
)

// Register adds the descriptors of Classes to r.
func Register(r *objects.Registry) error {
	if err := r.Register(Classes...); err != nil {
		return fmt.Errorf("hostlib: %w", err)
	}
	return nil
}

// Resolver binds each class under module.name.
func Resolver() *objects.MapResolver {
	resolver := objects.NewMapResolver()
	for _, class := range Classes {
		resolver.Add(class.Module+"."+class.Name, class.Type)
	}
	return resolver
}
