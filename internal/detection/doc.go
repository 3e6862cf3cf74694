// Package detection implements the edge operators and region segmentation of
// the pipeline.
//
// All operators take single-channel 8-bit buffers from the imaging package
// and return freshly allocated results. Inputs are never modified, and no
// operator keeps state between calls, so independent images may be processed
// concurrently.
//
// # Operators
//
//   - GradientMagnitude: Sobel first derivatives, L2 magnitude
//   - Laplacian: 4-neighbour second derivative
//   - DetectEdges: Canny-style detector (smooth, gradient, non-maximum
//     suppression, double-threshold hysteresis)
//   - LabelRegions / SegmentRegions: 4-connected labeling of the background
//     of a line mask, with a random color per region
//
// # Border Handling
//
// Every convolution in this package uses edge replication: a kernel tap that
// falls outside the image reads the nearest valid pixel. A uniform image
// therefore has zero response everywhere, including its border.
//
// # 8-bit Reduction
//
// Derivatives are computed in float64 planes (gonum mat.Dense) so that
// negative responses and values above 255 survive. Results are reduced to
// 8 bits by taking the absolute value, rounding, and clamping to [0, 255].
//
// # Connectivity
//
// Hysteresis grows edges over the 8-neighbourhood. Region labeling spreads
// over the 4-neighbourhood, so a diagonal one-pixel line still separates two
// regions.
package detection
