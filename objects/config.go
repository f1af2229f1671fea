package objects

import (
	"slices"
)

// Config is the runtime section of the configuration file.
type Config struct {
	// PreserveCase keeps host member names as declared instead of lowering their first letter.
	PreserveCase bool `json:"preserve_case"`
	// SuperPrefix names the escape members used for super calls from guest subclasses.
	SuperPrefix string `json:"super_prefix"`
	// KeywordMangling resolves name_ to name when name is a guest keyword.
	KeywordMangling bool     `json:"keyword_mangling"`
	Keywords        []string `json:"keywords"`
	// LogDispatch logs failed overload resolutions at debug level.
	LogDispatch bool `json:"log_dispatch"`
	// Strict checks descriptor invariants when publishing.
	Strict bool `json:"strict"`
}

var defaultKeywords = []string{
	"and", "as", "assert", "break", "class", "continue", "def", "del",
	"elif", "else", "except", "exec", "finally", "for", "from", "global",
	"if", "import", "in", "is", "lambda", "not", "or", "pass", "print",
	"raise", "return", "try", "while", "with", "yield",
}

func DefaultConfig() Config {
	return Config{
		SuperPrefix:     "super__",
		KeywordMangling: true,
		Keywords:        slices.Clone(defaultKeywords),
	}
}

func (c Config) withDefaults() Config {
	if c.SuperPrefix == "" {
		c.SuperPrefix = "super__"
	}
	if len(c.Keywords) == 0 {
		c.Keywords = slices.Clone(defaultKeywords)
	}
	return c
}

// unmangle maps print_ to print when print is a keyword.
func (c Config) unmangle(name string) (string, bool) {
	if !c.KeywordMangling || len(name) < 2 || name[len(name)-1] != '_' {
		return "", false
	}
	base := name[:len(name)-1]
	if slices.Contains(c.Keywords, base) {
		return base, true
	}
	return "", false
}

// ConfigPatch overrides the fields it sets.
type ConfigPatch struct {
	PreserveCase    *bool    `json:"preserve_case"`
	SuperPrefix     *string  `json:"super_prefix"`
	KeywordMangling *bool    `json:"keyword_mangling"`
	Keywords        []string `json:"keywords"`
	LogDispatch     *bool    `json:"log_dispatch"`
	Strict          *bool    `json:"strict"`
}

func (p ConfigPatch) Apply(c Config) Config {
	if p.PreserveCase != nil {
		c.PreserveCase = *p.PreserveCase
	}
	if p.SuperPrefix != nil {
		c.SuperPrefix = *p.SuperPrefix
	}
	if p.KeywordMangling != nil {
		c.KeywordMangling = *p.KeywordMangling
	}
	if p.Keywords != nil {
		c.Keywords = slices.Clone(p.Keywords)
	}
	if p.LogDispatch != nil {
		c.LogDispatch = *p.LogDispatch
	}
	if p.Strict != nil {
		c.Strict = *p.Strict
	}
	return c
}
