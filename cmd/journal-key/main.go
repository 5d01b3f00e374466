package main

import (
	"flag"
	"log"
	"os"

	"github.com/louisbranch/flightsurety/internal/tools/journalkey"
)

func main() {
	cfg, err := journalkey.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if err := journalkey.Run(cfg, os.Stdout, nil); err != nil {
		log.Fatalf("generate key: %v", err)
	}
}
