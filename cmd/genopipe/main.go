// cmd/genopipe/main.go
package main

import (
	"genopipe/internal/appshell"
	"genopipe/internal/rootcmd"
)

func main() {
	appshell.Main(rootcmd.RunContext)
}
