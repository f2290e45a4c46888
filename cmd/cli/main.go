package main

import (
	"context"
	"log"
	"os"

	"cloudbox/internal/buildinfo"
	"cloudbox/internal/client/cli"
	"cloudbox/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
