// Package server implements the MCP (Model Context Protocol) server for the
// edge detection tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_cache_evict: Drop one cached image, or all of them
//
// Edge Operators:
//   - image_gradient_magnitude: Sobel gradient magnitude
//   - image_laplacian: Laplacian response
//   - image_edge_detect: Canny edge detection
//   - image_edge_compare: All three operators side by side
//
// Stylization:
//   - image_line_art: Black-on-white line drawing, optionally color-filled
//   - image_segment_regions: Label and color the regions enclosed by edges,
//     or by the lines of an existing drawing (lines=dark|bright)
//
// Every image output is returned as a base64 PNG. With output_dir set, it is
// also written to disk and the file path is included in the result.
//
// # Defaults
//
// Optional arguments left out of a call are filled from config.Defaults:
// thresholds 100/200, overlay on, blend weights 1.0/0.8, red tint, seed 1.
// Arguments are decoded into pointers, so an explicit 0 or false is honored.
//
// # Image Caching
//
// Images are cached by absolute path and reused across tool calls until the
// file changes on disk or image_cache_evict drops them.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(config.DefaultDefaults(), logger.NewNop())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
