// Command drawmcp-web serves the diagram viewer and a small JSON API over the
// same parse/generate core the MCP server exposes as tools.
package main

import (
	"context"
	"embed"
	"encoding/json"
	"flag"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"drawmcp/pkg/generator"
	"drawmcp/pkg/mxgraph"
	"drawmcp/services"
)

//go:embed static
var staticFS embed.FS

var (
	addr     = flag.String("addr", ":8090", "Address to listen on")
	envFile  = flag.String("env", ".env", "Path to environment file")
	logLevel = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

// maxUploadBytes caps diagram uploads; draw.io files are text and rarely
// exceed a few hundred kilobytes.
const maxUploadBytes = 8 << 20

type webServer struct {
	generator *generator.Generator
	logger    *logrus.Logger
}

func main() {
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Warnf("Error loading env file %s: %v", *envFile, err)
	}

	model, err := services.NewTextGenerator(context.Background(), services.TextGeneratorConfigFromEnv())
	if err != nil {
		logger.Fatalf("Failed to configure text generator: %v", err)
	}

	srv := &webServer{
		generator: generator.New(model, logger),
		logger:    logger,
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		logger.Fatalf("Failed to load static assets: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Minute))

	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/parse", srv.handleParse)
	r.Post("/api/generate", srv.handleGenerate)
	r.Handle("/*", http.FileServer(http.FS(static)))

	httpServer := &http.Server{Addr: *addr, Handler: r}

	go func() {
		logger.Infof("Serving diagram viewer on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infof("Received signal %v, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}

// handleParse accepts a multipart upload (field "file") or a raw XML body and
// returns the parsed node/edge document.
func (s *webServer) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var content []byte
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		content, err = io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read upload")
			return
		}
	} else {
		var err error
		content, err = io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}
	}

	doc, err := mxgraph.Parse(string(content))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type generateRequest struct {
	Prompt     string `json:"prompt"`
	ContextXML string `json:"context_xml,omitempty"`
}

type generateResponse struct {
	XML string `json:"xml"`
}

// handleGenerate never reports generator failures: the fallback policy in
// pkg/generator guarantees valid XML either way.
func (s *webServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	var contextNodes []mxgraph.Node
	if req.ContextXML != "" {
		doc, err := mxgraph.Parse(req.ContextXML)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "context_xml: "+err.Error())
			return
		}
		contextNodes = doc.Nodes
	}

	xml := s.generator.Generate(r.Context(), req.Prompt, contextNodes)
	writeJSON(w, http.StatusOK, generateResponse{XML: xml})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
