package main

import "github.com/abdul-hamid-achik/rentalsmoke/apps/cli/cmd"

// set with -ldflags "-X main.version=... -X main.buildTime=..."
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
