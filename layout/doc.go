// Package layout provides the block extraction and line conversion
// strategies used by the pipeline.
//
// # Extractors
//
// Extractors receive a page's decoded content events one at a time and
// produce a [model.BlockPage]:
//
//   - [RunExtractor] - one block per run of text in the same font
//   - [WordExtractor] - one block per whitespace-separated word
//
// Both order their blocks top to bottom by baseline, then left to right,
// then by stream sequence.
//
// # Converters
//
// Converters turn a BlockPage into reading-order text lines. They are pure
// functions of their input:
//
//   - [LineConverter] - groups blocks into lines by baseline
//   - [RegionConverter] - groups lines into regions and reads multi-column
//     pages column by column
//   - [BlockConverter] - one line per block
//
// # Configuration
//
// All strategies share [Config]. Zero thresholds take their values from
// [DefaultConfig], except MinLineWidth, where zero disables the check:
//
//	cfg := layout.DefaultConfig()
//	cfg.SpaceGapRatio = 0.15
//	conv := layout.NewLineConverterWithConfig(cfg)
package layout
