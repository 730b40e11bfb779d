// Package imaging prepares scanned weekly menu announcements for OCR.
//
// A menu image goes through three steps:
//
//  1. Decode: PNG, JPEG, GIF, WebP and BMP sources are accepted and
//     converted to a single grayscale channel.
//  2. Preprocess: the gray levels are stretched to the full 0..255 range,
//     the image is upscaled 2x with linear interpolation, and a 3x3 sharpening
//     kernel is applied. Low-resolution board uploads OCR noticeably better
//     after this.
//  3. Segment: a ColumnLocator returns one rectangle per weekday column and
//     each rectangle is cropped into its own image.
//
// # Coordinate System
//
// Rectangles follow image.Rectangle semantics: Min is inclusive, Max is
// exclusive, (0,0) is the top-left corner. Preprocessed images always start
// at the origin.
//
// # Column Location
//
// FractionLocator relies on the fixed table layout of the announcement
// template: the weekday grid sits between 18% and 98% of the width and
// between 18% and 82% of the height. The fractions are tuned against real
// uploads and have no derivation beyond that. A template change moves the
// grid and breaks extraction silently; ColumnOverlay makes that visible.
//
// RuleLocator searches the same region for the table's vertical rules with a
// blurred Sobel gradient and uses them as column boundaries, falling back to
// the fractions when the rule count does not match.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use on different
// images. Input images are never modified.
package imaging
