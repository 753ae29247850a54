package main

import (
	"context"
	"os"

	"github.com/fleetzen/fleetzen/internal/cli"
	"github.com/fleetzen/fleetzen/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	os.Exit(cli.Execute(context.Background(), buildInfo, os.Args[1:]))
}
