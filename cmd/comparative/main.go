// cmd/comparative/main.go
package main

import (
	"genopipe/internal/appshell"
	"genopipe/internal/comparativeapp"
)

func main() {
	appshell.Main(comparativeapp.RunContext)
}
