package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	reporterscmd "github.com/louisbranch/flightsurety/internal/cmd/reporters"
)

func main() {
	cfg, err := reporterscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[REPORTERS] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := reporterscmd.Run(ctx, cfg); err != nil {
		log.Fatalf("reporters stopped: %v", err)
	}
}
