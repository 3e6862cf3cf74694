// Package imaging provides the raster buffer, loading, compositing and
// encoding used by the edge detection pipeline.
//
// # Buffers
//
// Buffer is an 8-bit, row-major raster with an explicit channel count of 1
// (intensity or mask) or 3 (RGB). Pixel (0,0) is the top-left corner, X grows
// rightward and Y grows downward. Operations never modify their inputs and
// always return a freshly allocated Buffer.
//
// Conversions to and from the standard image.Image types are provided by
// FromImage, GrayFromImage and Buffer.Image, so decoded files and encoded
// results pass through the pipeline unchanged.
//
// # Compositing
//
// Two ways of presenting a single-channel mask on a color image:
//   - BlendOverlay: weighted sum with a red-tinted copy of the mask, for
//     continuous magnitudes
//   - PaintMask: hard overwrite with a solid color, for binary edge masks
//
// # Colors
//
// RGBColor values serialize as {"r","g","b"} and convert to and from
// "#RRGGBB" strings with Hex and ParseHexColor.
//
// # Error Handling
//
// Malformed buffers (empty, unsupported channel count, mismatched sizes)
// are reported with errors wrapping ErrInvalidInput; test with errors.Is.
// File I/O and codec failures are returned with context.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless
// and may be called concurrently on different buffers.
package imaging
