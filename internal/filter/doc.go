// Package filter provides the small fixed-size convolutions used to build
// gradient cost maps.
//
// Regions are interleaved 8-bit buffers (1 to 4 channels). Kernels are 3x3
// with a divisor; samples outside the region are clamped to the nearest
// edge pixel. Negative mode adds 128 to every result so signed derivative
// responses fit in a byte.
package filter
