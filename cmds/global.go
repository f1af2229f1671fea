package cmds

import "os"

// GlobalExecutor holds commands defined at package init time.
var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

func Execute(args []string) error {
	return GlobalExecutor.Execute(args)
}

func MustExecute(args []string) {
	GlobalExecutor.MustExecute(args)
}

// ExecuteOS runs the process arguments.
func ExecuteOS() error {
	return GlobalExecutor.Execute(os.Args[1:])
}

func PrintUsage() {
	GlobalExecutor.PrintUsage()
}

func Rest() []string {
	return GlobalExecutor.Rest()
}
