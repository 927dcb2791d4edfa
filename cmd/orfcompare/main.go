// cmd/orfcompare/main.go
package main

import (
	"genopipe/internal/appshell"
	"genopipe/internal/orfapp"
)

func main() {
	appshell.Main(orfapp.RunContext)
}
