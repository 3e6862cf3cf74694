package server

import (
	"testing"
)

var allToolNames = []string{
	"image_load",
	"image_dimensions",
	"image_cache_evict",
	"image_gradient_magnitude",
	"image_laplacian",
	"image_edge_detect",
	"image_edge_compare",
	"image_line_art",
	"image_segment_regions",
}

func toolsByName() map[string]Tool {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}
	return toolMap
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) != len(allToolNames) {
		t.Fatalf("GetToolDefinitions: got %d tools, want %d", len(tools), len(allToolNames))
	}

	toolMap := toolsByName()
	for _, name := range allToolNames {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for name, tool := range toolsByName() {
		t.Run(name, func(t *testing.T) {
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}

			// Evicting without a path clears the whole cache.
			if name == "image_cache_evict" {
				if len(required) != 0 {
					t.Errorf("required: got %v, want []", required)
				}
				return
			}

			// path is the only required argument; everything else has a default
			if len(required) != 1 || required[0] != "path" {
				t.Errorf("required: got %v, want [path]", required)
			}
		})
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolDefaults := map[string]map[string]interface{}{
		"image_gradient_magnitude": {"overlay": true, "primary_weight": 1.0, "tint_weight": 0.8},
		"image_laplacian":          {"overlay": true, "primary_weight": 1.0, "tint_weight": 0.8},
		"image_edge_detect":        {"threshold_low": 100, "threshold_high": 200, "tint": "#FF0000"},
		"image_edge_compare":       {"threshold_low": 100, "threshold_high": 200, "overlay": true},
		"image_line_art":           {"threshold_low": 100, "threshold_high": 200, "styled": false, "seed": 1},
		"image_segment_regions":    {"seed": 1, "lines": "detect"},
	}

	toolMap := toolsByName()
	for toolName, expectedDefaults := range toolDefaults {
		tool, ok := toolMap[toolName]
		if !ok {
			t.Errorf("Tool %s not found", toolName)
			continue
		}

		props, ok := tool.InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: properties should be a map", toolName)
			continue
		}

		for paramName, expected := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}
			if actual := param["default"]; actual != expected {
				t.Errorf("%s.%s: default got %v (%T), want %v (%T)", toolName, paramName, actual, actual, expected, expected)
			}
		}
	}
}

func TestToolDefinitions_GradientHasNoThresholds(t *testing.T) {
	props := toolsByName()["image_gradient_magnitude"].InputSchema["properties"].(map[string]interface{})
	for _, name := range []string{"threshold_low", "threshold_high", "tint"} {
		if _, ok := props[name]; ok {
			t.Errorf("image_gradient_magnitude should not accept %s", name)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil, nil)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(allToolNames) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(allToolNames))
	}
}
