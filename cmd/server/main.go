package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/examkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/examkeeper/internal/server"
	"github.com/dmitrijs2005/examkeeper/internal/server/auth"
	"github.com/dmitrijs2005/examkeeper/internal/server/config"
)

// Usage:
//
//	server [flags]                  run the intake server
//	server token <user-id> [flags]  print a bearer token for user-id
func main() {
	cfg := config.LoadConfig()

	if len(os.Args) > 2 && os.Args[1] == "token" {
		tok, err := auth.GenerateToken(os.Args[2], []byte(cfg.SecretKey), cfg.TokenValidityDuration)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println(tok)
		return
	}

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
