package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lumen-render/go-tile-raytracer/pkg/progress"
	"github.com/lumen-render/go-tile-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	regionPath := flag.String("region", "render.progress", "Path to the renderer's progress region file")
	width := flag.Int("width", 800, "Render image width (must match the renderer)")
	height := flag.Int("height", 450, "Render image height (must match the renderer)")
	tileEdge := flag.Int("tile-edge", 64, "Render tile edge (must match the renderer)")
	console := flag.Bool("console", false, "Log progress to the console instead of serving HTTP")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	layout := progress.NewLayout(*width, *height, *tileEdge)
	if err := layout.Validate(); err != nil {
		log.Fatalf("invalid layout: %v", err)
	}

	monitor := server.NewServer(*port, *regionPath, layout, log)

	if *console {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := monitor.WatchConsole(ctx, time.Second); err != nil && ctx.Err() == nil {
			log.Fatalf("watch failed: %v", err)
		}
		return
	}

	if err := monitor.Start(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
