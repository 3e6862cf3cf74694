package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// schema helpers shared by the operator tools

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func thresholdProperty(which string, def int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     255,
		"description": "Hysteresis " + which + " threshold in gradient units. Swapped with the other threshold if out of order.",
		"default":     def,
	}
}

func outputDirProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional directory. When set, the result PNG is also written there and its path returned.",
	}
}

func seedProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"description": "Seed for the region color generator. The same seed reproduces the same colors.",
		"default":     1,
	}
}

// viewProperties are the arguments every single-operator view accepts.
func viewProperties(withThresholds bool) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),
		"overlay": map[string]interface{}{
			"type":        "boolean",
			"description": "Composite the result onto the image (true) or return the raw single-channel mask (false).",
			"default":     true,
		},
		"primary_weight": map[string]interface{}{
			"type":        "number",
			"description": "Weight of the source image in the blend. Default 1.0",
			"default":     1.0,
		},
		"tint_weight": map[string]interface{}{
			"type":        "number",
			"description": "Weight of the red-tinted mask in the blend. Default 0.8",
			"default":     0.8,
		},
		"output_dir": outputDirProperty(),
	}
	if withThresholds {
		props["threshold_low"] = thresholdProperty("low", 100)
		props["threshold_high"] = thresholdProperty("high", 200)
		props["tint"] = map[string]interface{}{
			"type":        "string",
			"description": "Hex color painted on detected edges (#RRGGBB). Default #FF0000",
			"default":     "#FF0000",
		}
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		{
			Name:        "image_cache_evict",
			Description: "Drop a decoded image from the server cache so the next call re-reads it from disk. Without a path every cached image is dropped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image to drop. Omit to clear the whole cache",
					},
				},
				"required": []string{},
			},
		},

		// Edge Operators
		{
			Name:        "image_gradient_magnitude",
			Description: "Sobel gradient magnitude. Bright where intensity changes quickly. Returned as a red overlay on the image or as a grayscale mask.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": viewProperties(false),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_laplacian",
			Description: "Laplacian (second derivative) response. Highlights fine detail and noise. Returned as a red overlay on the image or as a grayscale mask.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": viewProperties(false),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Canny edge detection with hysteresis thresholds. Returns thin binary edges, painted onto the image or as a black/white mask.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": viewProperties(true),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_edge_compare",
			Description: "Run gradient magnitude, Laplacian and Canny on the same image and return all three views side by side with the original.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": viewProperties(true),
				"required":   []string{"path"},
			},
		},

		// Stylization
		{
			Name:        "image_line_art",
			Description: "Render the image as a line drawing: black edge lines on white. With styled=true the enclosed regions are filled with random colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty(),
					"threshold_low":  thresholdProperty("low", 100),
					"threshold_high": thresholdProperty("high", 200),
					"styled": map[string]interface{}{
						"type":        "boolean",
						"description": "Fill enclosed regions with random colors. Default false",
						"default":     false,
					},
					"seed":       seedProperty(),
					"output_dir": outputDirProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_segment_regions",
			Description: "Label the 4-connected regions enclosed by lines. Lines come from edge detection by default, or from the image itself when it is already a line drawing. Returns the region count, per-region pixel sizes and colors, and the filled region image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"lines": map[string]interface{}{
						"type":        "string",
						"description": "Where lines come from: 'detect' runs edge detection, 'dark' reads dark pixels of the image as lines (ink on paper), 'bright' reads bright pixels as lines. Default detect",
						"enum":        []string{"detect", "dark", "bright"},
						"default":     "detect",
					},
					"threshold_low":  thresholdProperty("low", 100),
					"threshold_high": thresholdProperty("high", 200),
					"seed":           seedProperty(),
					"output_dir":     outputDirProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
