// Package server implements the render monitor: a small HTTP server that
// reads the renderer's shared progress region and exposes completion state
// and a live preview to browsers and scripts. The monitor runs in its own
// process; the only contract with the renderer is the region file layout.
package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/lumen-render/go-tile-raytracer/pkg/progress"
	"github.com/lumen-render/go-tile-raytracer/pkg/sensor"
)

// Server serves progress and preview data read from a region file.
type Server struct {
	port       int
	regionPath string
	layout     progress.Layout
	log        *logrus.Logger
}

// NewServer creates a monitor for the region file at regionPath. The layout
// must match the renderer's, or opening the region fails.
func NewServer(port int, regionPath string, layout progress.Layout, log *logrus.Logger) *Server {
	return &Server{port: port, regionPath: regionPath, layout: layout, log: log}
}

// Status is the JSON shape of /api/progress.
type Status struct {
	Percent    int  `json:"percent"`
	TilesDone  int  `json:"tilesDone"`
	TotalTiles int  `json:"totalTiles"`
	Final      bool `json:"final"`
}

// Handler returns the monitor's HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/progress", s.handleProgress)
	mux.HandleFunc("/api/preview", s.handlePreview)
	return mux
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Infof("render monitor on http://localhost%s watching %s", addr, s.regionPath)
	return http.ListenAndServe(addr, s.Handler())
}

// openRegion maps the region file for one request. The renderer may not
// have created the file yet; callers translate the error to 503.
func (s *Server) openRegion() (*progress.Region, error) {
	return progress.OpenReader(s.regionPath, s.layout)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	available := false
	if region, err := s.openRegion(); err == nil {
		region.Close()
		available = true
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "region": available})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	region, err := s.openRegion()
	if err != nil {
		http.Error(w, "render region not available", http.StatusServiceUnavailable)
		return
	}
	defer region.Close()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Status{
		Percent:    int(region.Progress()),
		TilesDone:  region.TilesDone(),
		TotalTiles: s.layout.Tiles(),
		Final:      region.Final(),
	})
}

// handlePreview assembles the resolved pixel bank into a PNG. Tiles not yet
// mirrored render black. An optional ?max=N query downscales the image so
// its longer edge is N pixels.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	region, err := s.openRegion()
	if err != nil {
		http.Error(w, "render region not available", http.StatusServiceUnavailable)
		return
	}
	defer region.Close()

	img, err := assemblePreview(region)
	if err != nil {
		s.log.Warnf("preview: %v", err)
		http.Error(w, "preview unavailable", http.StatusInternalServerError)
		return
	}

	if raw := r.URL.Query().Get("max"); raw != "" {
		maxEdge, err := strconv.Atoi(raw)
		if err != nil || maxEdge <= 0 {
			http.Error(w, "max must be a positive integer", http.StatusBadRequest)
			return
		}
		img = sensor.Downscale(img, maxEdge)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := png.Encode(w, img); err != nil {
		s.log.Warnf("preview encode: %v", err)
	}
}

// assemblePreview reads the resolved bank of every completed tile into a
// full-resolution image.
func assemblePreview(region *progress.Region) (*image.RGBA, error) {
	layout := region.Layout()
	img := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))

	for ty := 0; ty < layout.TilesY; ty++ {
		for tx := 0; tx < layout.TilesX; tx++ {
			tileIndex := ty*layout.TilesX + tx
			done, err := region.TileDone(tileIndex)
			if err != nil {
				return nil, err
			}
			if !done {
				continue
			}

			x0 := tx * layout.TileEdge
			y0 := ty * layout.TileEdge
			tileW := min(layout.TileEdge, layout.Width-x0)
			tileH := min(layout.TileEdge, layout.Height-y0)
			for ly := 0; ly < tileH; ly++ {
				for lx := 0; lx < tileW; lx++ {
					rgbw, err := region.ReadPixel(tileIndex, lx, ly, progress.BankResolved)
					if err != nil {
						return nil, err
					}
					img.SetRGBA(x0+lx, y0+ly, displayColor(rgbw))
				}
			}
		}
	}
	return img, nil
}

// displayColor converts a resolved linear RGBW record to display color
// with gamma 2.0, matching the renderer's own output conversion.
func displayColor(rgbw [4]float32) color.RGBA {
	channel := func(v float32) uint8 {
		f := math.Sqrt(math.Min(math.Max(float64(v), 0), 1))
		return uint8(f * 255)
	}
	return color.RGBA{R: channel(rgbw[0]), G: channel(rgbw[1]), B: channel(rgbw[2]), A: 255}
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Render Monitor</title></head>
<body style="font-family: sans-serif; background: #1e1e1e; color: #ddd; text-align: center">
  <h2>Render Monitor</h2>
  <p id="status">waiting for render...</p>
  <img id="preview" style="max-width: 90%; image-rendering: pixelated" alt="">
  <script>
    async function poll() {
      try {
        const res = await fetch('/api/progress');
        if (res.ok) {
          const p = await res.json();
          document.getElementById('status').textContent =
            p.percent + '% (' + p.tilesDone + '/' + p.totalTiles + ' tiles)' +
            (p.final ? ' - complete' : '');
          document.getElementById('preview').src = '/api/preview?t=' + Date.now();
          if (p.final) return;
        }
      } catch (e) {}
      setTimeout(poll, 1000);
    }
    poll();
  </script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, indexPage)
}
