package configs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
	"github.com/reusee/hostobj/cmds"
	"github.com/reusee/hostobj/logs"
)

type Module struct {
	dscope.Module
}

//go:embed schema.cue
var Schema string

var extraPaths = cmds.Collect[string]("-config", "HOSTOBJ_CONFIG")

var filenames = []string{
	"hostobj.cue",
	".hostobj.cue",
}

// FilePaths lists the configuration files to load, most specific first.
type FilePaths []string

func (Module) FilePaths() FilePaths {
	paths := append(FilePaths(nil), *extraPaths...)

	var dirs []string
	// working directory
	if dir, err := os.Getwd(); err == nil {
		dirs = append(dirs, dir)
	}
	// user config dir
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	// system wide dir
	dirs = append(dirs, "/etc")

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return paths
}

func (Module) Loader(
	paths FilePaths,
	logger logs.Logger,
) Loader {
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", []string(paths),
		)
	}
	return NewLoader(paths, Schema)
}
