package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"
)

var (
	configPath = flag.String("config", "", "YAML configuration file.")
	addr       = flag.String("addr", "", "TCP address to listen to; overrides the config file.")
	dbPath     = flag.String("db", "", "SQLite database path; overrides the config file.")
)

func main() {
	flag.Parse()
	if *configPath != "" {
		c, err := LoadConfig(*configPath)
		if err != nil {
			log.Fatalln(err)
		}
		config = c
	}
	if *addr != "" {
		config.Addr = *addr
	}
	if *dbPath != "" {
		config.DB = *dbPath
	}
	if err := OpenDb(config.DB); err != nil {
		log.Fatalln(err)
	}
	if err := StartExpiredCleanSchedule(config.CleanInterval); err != nil {
		log.Fatalln(err)
	}
	playServer = newServer()
	go Serve(playServer, config.Addr)

	// Make a signal channel. Register SIGINT.
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)

	// Wait for the signal.
	<-sigch

	log.Println("Interrupted. Exiting.")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdown(ctx)
}
