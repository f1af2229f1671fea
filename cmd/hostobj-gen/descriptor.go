package main

import (
	"fmt"

	"github.com/reusee/hostobj/configs"
)

const schema = `
classes: [...close({
	name:        string
	module?:     string
	type:        string
	super?:      string
	introspect?: bool
	interfaces?: [...string]
	methods?: [...close({
		name:    string
		func:    string
		static?: bool
	})]
	fields?: [...close({
		name: string
		var:  string
	})]
	constructors?: [...string]
})]
`

type classDesc struct {
	Name         string       `json:"name"`
	Module       *string      `json:"module"`
	Type         string       `json:"type"`
	Super        *string      `json:"super"`
	Introspect   *bool        `json:"introspect"`
	Interfaces   []string     `json:"interfaces"`
	Methods      []methodDesc `json:"methods"`
	Fields       []fieldDesc  `json:"fields"`
	Constructors []string     `json:"constructors"`
}

type methodDesc struct {
	Name   string `json:"name"`
	Func   string `json:"func"`
	Static *bool  `json:"static"`
}

type fieldDesc struct {
	Name string `json:"name"`
	Var  string `json:"var"`
}

func loadDescs(loader configs.Loader) ([]classDesc, error) {
	var descs []classDesc
	if err := loader.AssignFirst("classes", &descs); err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}
	seen := make(map[string]bool)
	for _, desc := range descs {
		if seen[desc.Type] {
			return nil, fmt.Errorf("duplicated class type %s", desc.Type)
		}
		seen[desc.Type] = true
	}
	return descs, nil
}
