// cmd/genepred/main.go
package main

import (
	"genopipe/internal/appshell"
	"genopipe/internal/predictapp"
)

func main() {
	appshell.Main(predictapp.RunContext)
}
