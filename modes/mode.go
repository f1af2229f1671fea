package modes

import (
	"fmt"

	"github.com/reusee/hostobj/cmds"
)

type Mode uint8

const (
	ModeDevelopment Mode = iota + 1
	ModeProduction
)

func (m Mode) String() string {
	switch m {
	case ModeDevelopment:
		return "development"
	case ModeProduction:
		return "production"
	}
	return "unknown"
}

func ParseMode(str string) (mode Mode, err error) {
	err = mode.UnmarshalText([]byte(str))
	return
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "development", "dev":
		*m = ModeDevelopment
	case "production", "prod":
		*m = ModeProduction
	default:
		return fmt.Errorf("unknown mode: %q", text)
	}
	return nil
}

// Strict reports whether class descriptors are checked eagerly.
func (m Mode) Strict() bool {
	return m == ModeDevelopment
}

var modeFlag = cmds.Var[Mode]("-mode", "HOSTOBJ_MODE")
