package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	suretycmd "github.com/louisbranch/flightsurety/internal/cmd/surety"
)

func main() {
	cfg, err := suretycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[SURETY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := suretycmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
