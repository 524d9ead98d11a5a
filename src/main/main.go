package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kicad-impart/src/backend"
	"kicad-impart/src/config"
	"kicad-impart/src/eventloop"
	"kicad-impart/src/folderwatch"
	"kicad-impart/src/logutil"
	"kicad-impart/src/singleinstance"
	"kicad-impart/src/statuspoller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	// If a primary instance already holds the port, it has been told to
	// bring its window forward; this process must not show a second one.
	if singleinstance.Probe(cfg.Port) {
		log.Printf("main: resident instance found, exiting")
		os.Exit(0)
	}

	loop := eventloop.New()
	registry := singleinstance.NewRegistry()
	dispatcher := singleinstance.NewDispatcher(registry, loop)
	server := singleinstance.NewServer(cfg.Port, registry, dispatcher)

	if !server.Start() {
		// Port held by something unresponsive. Keep going: imports still
		// work, only cross-process focus forwarding is lost.
		log.Printf("main: coordination port %d unavailable, running degraded", cfg.Port)
	}

	watcher, err := folderwatch.New(cfg.SrcPath, folderwatch.DefaultMinSize, folderwatch.DefaultMaxSize)
	if err != nil {
		log.Fatalf("Failed to create folder watcher: %v", err)
	}

	be := backend.New(&loggingImporter{dest: cfg.DestPath}, watcher)
	be.SetOverwriteImport(cfg.OverwriteImport)

	frontend := newConsoleFrontend()
	if !registry.Register(frontend) {
		log.Printf("main: frontend already registered, not building another window")
	}

	statusRelay := eventloop.NewRelay(loop, frontend.UpdateStatus)
	poller := statuspoller.New(be.Status, statusRelay.Post, cfg.PollInterval)
	poller.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := watcher.Start(); err != nil {
		log.Printf("main: folder watching disabled: %v", err)
	} else if cfg.AutoImport {
		be.StartAutoImport(ctx)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.Printf("main: received %v, shutting down", s)
		loop.Stop()
	}()

	// The main goroutine is the UI execution context.
	loop.Run()

	poller.Stop()
	<-poller.Done()
	be.Close()
	_ = watcher.Close()
	server.Stop()
	log.Printf("main: shutdown complete")
}
