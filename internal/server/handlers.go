package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ironsheep/edge-tools-mcp/internal/detection"
	"github.com/ironsheep/edge-tools-mcp/internal/imaging"
	"github.com/ironsheep/edge-tools-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_edge_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Error("tools", err, map[string]interface{}{
			"tool":        params.Name,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug("tools", "tool call completed", map[string]interface{}{
		"tool":        params.Name,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted arguments from the server defaults
//  3. Loads images from cache as needed
//  4. Runs the pipeline and encodes the image outputs
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_cache_evict":
		return s.handleCacheEvict(args)

	// Edge Operators
	case "image_gradient_magnitude":
		return s.handleOperator(pipeline.OperatorGradient, args)
	case "image_laplacian":
		return s.handleOperator(pipeline.OperatorLaplacian, args)
	case "image_edge_detect":
		return s.handleOperator(pipeline.OperatorEdges, args)
	case "image_edge_compare":
		return s.handleEdgeCompare(args)

	// Stylization
	case "image_line_art":
		return s.handleLineArt(args)
	case "image_segment_regions":
		return s.handleSegmentRegions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating a missing object as empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// loadColor returns the cached image at path as a three-channel buffer.
func (s *Server) loadColor(path string) (*imaging.Buffer, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.FromImage(img), nil
}

// encode wraps a buffer as an ImageResult and, when outputDir is set, also
// saves it to disk.
func (s *Server) encode(buf *imaging.Buffer, outputDir, prefix string) (*imaging.ImageResult, error) {
	res, err := imaging.EncodeResult(buf)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		path, err := imaging.SaveResult(outputDir, prefix, buf)
		if err != nil {
			return nil, err
		}
		res.SavedPath = path
		s.log.Debug("tools", "saved result", map[string]interface{}{"path": path})
	}
	return res, nil
}

// === Argument defaults ===

// thresholdArgs are shared by every tool that runs the detector.
type thresholdArgs struct {
	ThresholdLow  *int `json:"threshold_low"`
	ThresholdHigh *int `json:"threshold_high"`
}

func (s *Server) thresholds(a thresholdArgs) (int, int) {
	low, high := s.defaults.ThresholdLow, s.defaults.ThresholdHigh
	if a.ThresholdLow != nil {
		low = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		high = *a.ThresholdHigh
	}
	return low, high
}

type viewArgs struct {
	Path string `json:"path"`
	thresholdArgs
	Overlay       *bool    `json:"overlay"`
	PrimaryWeight *float64 `json:"primary_weight"`
	TintWeight    *float64 `json:"tint_weight"`
	Tint          *string  `json:"tint"`
	OutputDir     *string  `json:"output_dir"`
}

func (s *Server) viewOptions(a viewArgs) (pipeline.ViewOptions, error) {
	opts := pipeline.ViewOptions{
		Overlay:       s.defaults.Overlay,
		PrimaryWeight: s.defaults.PrimaryWeight,
		TintWeight:    s.defaults.TintWeight,
		Tint:          s.defaults.TintColor(),
	}
	if a.Overlay != nil {
		opts.Overlay = *a.Overlay
	}
	if a.PrimaryWeight != nil {
		opts.PrimaryWeight = *a.PrimaryWeight
	}
	if a.TintWeight != nil {
		opts.TintWeight = *a.TintWeight
	}
	if opts.PrimaryWeight < 0 || opts.TintWeight < 0 {
		return opts, fmt.Errorf("blend weights must be non-negative")
	}
	if a.Tint != nil {
		tint, err := imaging.ParseHexColor(*a.Tint)
		if err != nil {
			return opts, err
		}
		opts.Tint = tint
	}
	return opts, nil
}

func (s *Server) outputDir(dir *string) string {
	if dir != nil {
		return *dir
	}
	return s.defaults.OutputDir
}

func (s *Server) seed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return s.defaults.Seed
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Edge Operator Handlers ===

// OperatorResult is the reply of a single-operator tool.
type OperatorResult struct {
	Operator string `json:"operator"`
	Overlay  bool   `json:"overlay"`

	// Thresholds are the normalized detector thresholds; set only for
	// image_edge_detect.
	Thresholds *detection.Thresholds `json:"thresholds,omitempty"`

	Image *imaging.ImageResult `json:"image"`
}

func (s *Server) handleOperator(op pipeline.Operator, args json.RawMessage) (interface{}, error) {
	var a viewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.viewOptions(a)
	if err != nil {
		return nil, err
	}
	img, err := s.loadColor(a.Path)
	if err != nil {
		return nil, err
	}

	low, high := s.thresholds(a.thresholdArgs)
	out, err := pipeline.Render(img, op, low, high, opts)
	if err != nil {
		return nil, err
	}
	encoded, err := s.encode(out, s.outputDir(a.OutputDir), op.String())
	if err != nil {
		return nil, err
	}

	res := &OperatorResult{
		Operator: op.String(),
		Overlay:  opts.Overlay,
		Image:    encoded,
	}
	if op == pipeline.OperatorEdges {
		t := detection.Thresholds{Low: low, High: high}.Normalize()
		res.Thresholds = &t
	}
	return res, nil
}

// CompareResult holds the source image and the three operator views.
type CompareResult struct {
	Thresholds detection.Thresholds `json:"thresholds"`
	Overlay    bool                 `json:"overlay"`
	Original   *imaging.ImageResult `json:"original"`
	Gradient   *imaging.ImageResult `json:"gradient"`
	Laplacian  *imaging.ImageResult `json:"laplacian"`
	Edges      *imaging.ImageResult `json:"edges"`
}

func (s *Server) handleEdgeCompare(args json.RawMessage) (interface{}, error) {
	var a viewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.viewOptions(a)
	if err != nil {
		return nil, err
	}
	img, err := s.loadColor(a.Path)
	if err != nil {
		return nil, err
	}

	low, high := s.thresholds(a.thresholdArgs)
	cmp, err := pipeline.Compare(img, low, high, opts)
	if err != nil {
		return nil, err
	}

	dir := s.outputDir(a.OutputDir)
	res := &CompareResult{Thresholds: cmp.Thresholds, Overlay: cmp.Overlay}
	views := []struct {
		name string
		buf  *imaging.Buffer
		dst  **imaging.ImageResult
	}{
		{"original", cmp.Original, &res.Original},
		{"gradient", cmp.Gradient, &res.Gradient},
		{"laplacian", cmp.Laplacian, &res.Laplacian},
		{"edges", cmp.Edges, &res.Edges},
	}
	for _, v := range views {
		encoded, err := s.encode(v.buf, dir, v.name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.name, err)
		}
		*v.dst = encoded
	}
	return res, nil
}

// === Stylization Handlers ===

type lineArtArgs struct {
	Path string `json:"path"`
	thresholdArgs
	Styled    bool    `json:"styled"`
	Seed      *uint64 `json:"seed"`
	OutputDir *string `json:"output_dir"`
}

// LineArtResult is the reply of image_line_art.
type LineArtResult struct {
	Styled      bool                 `json:"styled"`
	Seed        uint64               `json:"seed"`
	Thresholds  detection.Thresholds `json:"thresholds"`
	RegionCount int                  `json:"region_count,omitempty"`
	Image       *imaging.ImageResult `json:"image"`
}

func (s *Server) handleLineArt(args json.RawMessage) (interface{}, error) {
	var a lineArtArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadColor(a.Path)
	if err != nil {
		return nil, err
	}

	low, high := s.thresholds(a.thresholdArgs)
	seed := s.seed(a.Seed)
	art, err := pipeline.DrawLineArt(img, low, high, pipeline.LineArtOptions{
		Styled: a.Styled,
		Rand:   detection.NewRand(seed),
	})
	if err != nil {
		return nil, err
	}

	prefix := "lineart"
	if a.Styled {
		prefix = "lineart-styled"
	}
	encoded, err := s.encode(art.Image, s.outputDir(a.OutputDir), prefix)
	if err != nil {
		return nil, err
	}

	res := &LineArtResult{
		Styled:     a.Styled,
		Seed:       seed,
		Thresholds: detection.Thresholds{Low: low, High: high}.Normalize(),
		Image:      encoded,
	}
	if art.Regions != nil {
		res.RegionCount = art.Regions.Count
	}
	return res, nil
}

type segmentRegionsArgs struct {
	Path string `json:"path"`
	thresholdArgs
	Lines     string  `json:"lines"`
	Seed      *uint64 `json:"seed"`
	OutputDir *string `json:"output_dir"`
}

// RegionSummary describes one labeled region.
type RegionSummary struct {
	Label  int    `json:"label"`
	Pixels int    `json:"pixels"`
	Color  string `json:"color"`
}

// SegmentRegionsResult is the reply of image_segment_regions.
type SegmentRegionsResult struct {
	// Lines is "detect" when the line mask came from the edge detector, or
	// the polarity the input image was read with ("dark" or "bright").
	Lines string `json:"lines"`

	// Thresholds is only set when the edge detector ran.
	Thresholds *detection.Thresholds `json:"thresholds,omitempty"`

	Seed        uint64               `json:"seed"`
	RegionCount int                  `json:"region_count"`
	LinePixels  int                  `json:"line_pixels"`
	Regions     []RegionSummary      `json:"regions"`
	Image       *imaging.ImageResult `json:"image"`
}

// handleSegmentRegions labels the regions enclosed by a line mask. By default
// the mask is the edge detector's output; with lines set to "dark" or
// "bright" the image itself is read as a line drawing of that polarity.
// The returned image is the filled region map with lines left white.
func (s *Server) handleSegmentRegions(args json.RawMessage) (interface{}, error) {
	var a segmentRegionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadColor(a.Path)
	if err != nil {
		return nil, err
	}

	res := &SegmentRegionsResult{Seed: s.seed(a.Seed)}
	mask := img.Gray()
	polarity := detection.LinesBright

	switch lines := strings.ToLower(strings.TrimSpace(a.Lines)); lines {
	case "", "detect":
		low, high := s.thresholds(a.thresholdArgs)
		edges, err := detection.DetectEdges(mask, low, high)
		if err != nil {
			return nil, err
		}
		th := detection.Thresholds{Low: low, High: high}.Normalize()
		mask = edges
		res.Lines = "detect"
		res.Thresholds = &th
	default:
		p, err := detection.ParsePolarity(lines)
		if err != nil {
			return nil, err
		}
		polarity = p
		res.Lines = p.String()
	}

	labels, colors, err := detection.SegmentRegions(mask, polarity, detection.NewRand(res.Seed))
	if err != nil {
		return nil, err
	}
	filled, err := detection.FillRegions(labels, colors)
	if err != nil {
		return nil, err
	}
	res.Image, err = s.encode(filled, s.outputDir(a.OutputDir), "regions")
	if err != nil {
		return nil, err
	}

	sizes := labels.Sizes()
	res.Regions = make([]RegionSummary, 0, len(sizes))
	covered := 0
	for _, e := range colors.Entries() {
		res.Regions = append(res.Regions, RegionSummary{Label: e.Label, Pixels: sizes[e.Label-1], Color: e.Hex})
		covered += sizes[e.Label-1]
	}
	res.RegionCount = labels.Count
	res.LinePixels = labels.Width*labels.Height - covered

	return res, nil
}

// === Cache Handlers ===

type cacheEvictArgs struct {
	Path string `json:"path"`
}

// CacheEvictResult is the reply of image_cache_evict.
type CacheEvictResult struct {
	Path    string `json:"path,omitempty"`
	Evicted int    `json:"evicted"`
	Cached  int    `json:"cached"`
}

// handleCacheEvict drops one cached image, or every cached image when no
// path is given.
func (s *Server) handleCacheEvict(args json.RawMessage) (interface{}, error) {
	var a cacheEvictArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	res := &CacheEvictResult{Path: a.Path}
	if a.Path == "" {
		res.Evicted = s.cache.Clear()
	} else if s.cache.Evict(a.Path) {
		res.Evicted = 1
	}
	res.Cached = s.cache.Len()

	s.log.Info("cache", "evicted cached images", map[string]interface{}{
		"path":  a.Path,
		"count": res.Evicted,
	})
	return res, nil
}
