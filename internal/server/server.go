// Package server exposes the estimator over a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/iwvelando/study-estimator/internal/config"
	"github.com/iwvelando/study-estimator/internal/estimator"
	"github.com/iwvelando/study-estimator/pkg/constants"
	"github.com/iwvelando/study-estimator/pkg/export"
	"github.com/iwvelando/study-estimator/pkg/output"
	"github.com/iwvelando/study-estimator/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger         *zap.Logger
	engine         *estimator.Engine
	maxRequestSize int64
	version        string
	now            func() time.Time
}

// NewHandler constructs the HTTP handler that serves the estimate API.
func NewHandler(logger *zap.Logger, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		engine:         estimator.NewEngine(logger),
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
		now:            time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/estimate", h.handleEstimate)
	mux.HandleFunc("/api/estimate/upload", h.handleEstimateUpload)
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/defaults", h.handleDefaults)
	mux.HandleFunc("/api/config/yaml", h.handleConfigYAML)
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

// Serve runs the API on cfg.Address until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, logger *zap.Logger, cfg *Config, version string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      NewHandler(logger, cfg.RequestSizeBytes(), version),
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("estimate API listening",
			zap.String("op", "server.Serve"),
			zap.String("address", cfg.Address),
			zap.Int64("maxRequestSize", cfg.RequestSizeBytes()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down estimate API", zap.String("op", "server.Serve"))
		return srv.Shutdown(shutdownCtx)
	}
}

type estimateResponse struct {
	Project    output.Header              `json:"project"`
	Result     estimator.EstimationResult `json:"result"`
	CSV        string                     `json:"csv"`
	Warnings   []string                   `json:"warnings,omitempty"`
	Duration   string                     `json:"duration"`
	Config     map[string]interface{}     `json:"config,omitempty"`
	ConfigYAML string                     `json:"configYaml,omitempty"`
}

// estimateInput is a decoded request body ready for the engine.
type estimateInput struct {
	cfg        *config.Configuration
	configMap  map[string]interface{}
	configYAML []byte
	warnings   []string
	request    estimator.Request
}

func (i estimateInput) header() output.Header {
	return output.Header{
		Project:  i.cfg.Project.Name,
		Client:   i.cfg.Project.Client,
		Type:     i.cfg.Project.Type,
		Currency: i.cfg.Project.Currency,
	}
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	input, status, err := h.decodeEstimateInput(w, r)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	h.runEstimate(w, input, start, op)
}

// handleEstimateUpload accepts a YAML configuration file as multipart form
// field "file".
func (h *handler) handleEstimateUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimateUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	if err := r.ParseMultipartForm(h.maxRequestSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxRequestSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	input, status, err := loadEstimateInput(configBytes, configMap)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	h.runEstimate(w, input, start, op)
}

func (h *handler) runEstimate(w http.ResponseWriter, input estimateInput, start time.Time, op string) {
	result := h.engine.Estimate(input.request)
	result.Warnings = validation.MergeWarnings(input.warnings, result.Warnings)
	elapsed := time.Since(start)

	response := estimateResponse{
		Project:    input.header(),
		Result:     result,
		CSV:        output.CsvString(result, output.SectionAll),
		Warnings:   result.Warnings,
		Duration:   elapsed.String(),
		Config:     input.configMap,
		ConfigYAML: string(input.configYAML),
	}
	// Warnings are reported once, at the top level.
	response.Result.Warnings = nil

	h.logger.Info("estimate computed",
		zap.String("op", op),
		zap.Int("busCount", result.BusCount),
		zap.String("status", result.Status),
		zap.Int("warnings", len(response.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	exportFormat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if exportFormat == "" {
		exportFormat = constants.ExportFormatXLSX
	}
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	input, status, err := h.decodeEstimateInput(w, r)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	result := h.engine.Estimate(input.request)
	result.Warnings = validation.MergeWarnings(input.warnings, result.Warnings)
	data := export.BuildData(input.header(), result, h.now())

	body, contentType, err := export.Generate(exportFormat, data)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate %s: %v", exportFormat, err), op)
		return
	}

	h.logger.Info("estimate exported",
		zap.String("op", op),
		zap.String("format", exportFormat),
		zap.String("reference", data.Reference),
		zap.Int("bytes", len(body)),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(data, exportFormat)))
	w.Header().Set("X-Estimate-Reference", data.Reference)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("failed to write export body", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDefaults"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	yamlBytes, err := yaml.Marshal(config.DefaultConfiguration())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode defaults: %v", err), op)
		return
	}
	configMap, err := decodeYAMLToMap(yamlBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to decode defaults: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"config":     configMap,
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleConfigYAML(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigYAML"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		status, msg := decodeErrorStatus(err, h.maxRequestSize)
		h.respondErrorWithOp(w, status, msg, op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeEstimateInput reads a JSON configuration body, either bare or
// wrapped as {"config": {...}}. The JSON is round-tripped through YAML so it
// is loaded exactly like a file.
func (h *handler) decodeEstimateInput(w http.ResponseWriter, r *http.Request) (estimateInput, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		status, msg := decodeErrorStatus(err, h.maxRequestSize)
		return estimateInput{}, status, errors.New(msg)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			return estimateInput{}, http.StatusBadRequest, errors.New("invalid config payload: expected object")
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		return estimateInput{}, http.StatusBadRequest, fmt.Errorf("failed to encode configuration: %w", err)
	}

	return loadEstimateInput(configBytes, configPayload)
}

// loadEstimateInput loads YAML configuration bytes and converts them into an
// engine request together with the configuration warnings.
func loadEstimateInput(configBytes []byte, configMap map[string]interface{}) (estimateInput, int, error) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		return estimateInput{}, http.StatusBadRequest, err
	}

	request, _ := cfg.ToRequest()
	return estimateInput{
		cfg:        cfg,
		configMap:  configMap,
		configYAML: configBytes,
		warnings:   cfg.ValidateConfiguration(),
		request:    request,
	}, http.StatusOK, nil
}

func decodeErrorStatus(err error, limit int64) (int, string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("request exceeds limit of %d bytes", limit)
	}
	return http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err)
}

// configKeyOrder is the section order used when rendering configuration YAML.
var configKeyOrder = []string{"project", "loads", "blocks", "design", "studies", "labor", "costs", "logging", "output"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("estimate request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
