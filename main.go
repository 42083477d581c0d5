package main

import (
	"os"
	"path/filepath"

	"github.com/skiffshell/skiff/applets"
	"github.com/skiffshell/skiff/cmd"
)

// The binary is multi-call: installed (or symlinked) under an applet's name
// it becomes that utility, so a commands directory can be populated with one
// binary and a handful of links. Under its own name it is the shell driver.
func main() {
	if a, ok := applets.Lookup(filepath.Base(os.Args[0])); ok {
		os.Exit(a.Main(applets.NewProcContext(), os.Args[1:]))
	}
	cmd.Execute()
}
