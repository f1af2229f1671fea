package scripts

import (
	"io"
	"os"

	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

// Stdout receives the output of print.
type Stdout io.Writer

func (Module) Stdout() Stdout {
	return os.Stdout
}
