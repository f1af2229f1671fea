package main

import (
	"os"

	"github.com/reusee/hostobj/cmds"
	"github.com/reusee/hostobj/configs"
)

var (
	inPath  = cmds.Var[string]("-in")
	outPath = cmds.Var[string]("-out")
	pkgName = cmds.Var[string]("-pkg", "GOPACKAGE")
)

func main() {
	cmds.MustExecute(os.Args[1:])
	if *inPath == "" || *outPath == "" || *pkgName == "" {
		cmds.PrintUsage()
		os.Exit(2)
	}

	descs, err := loadDescs(configs.NewLoader([]string{*inPath}, schema))
	if err != nil {
		fatal(err)
	}
	if err := generate(*pkgName, descs).Save(*outPath); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	os.Stderr.WriteString(err.Error())
	os.Stderr.WriteString("\n")
	os.Exit(-1)
}
