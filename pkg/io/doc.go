// Package io reads and writes placement sets as JSON files.
//
// # JSON Format
//
// A set file is the JSON encoding of [placement.Set]:
//
//	{
//	  "seed": 12113978871203556914,
//	  "options": {"count": 2, "max_attempts": 100000, ...},
//	  "items": [
//	    {
//	      "kind": "box",
//	      "half_extents": {"x": 0.21, "y": 0.18, "z": 0.25},
//	      "center": {"x": -0.4, "y": 0.62, "z": 0.25},
//	      "sampled": {"x": 0.21, "y": 0.18, "z": 0.25},
//	      "scale": 1,
//	      "attempt": 1
//	    },
//	    ...
//	  ],
//	  "attempts": 3,
//	  "rejections": {"lopsided": 1, "too_close": 0}
//	}
//
// Kinds are "box" or "sphere". Unknown top-level fields are ignored, so the
// responses of the HTTP API can be read back directly.
//
// [ReadJSON] only decodes; run [placement.Verify] to check the placement
// rules. The path "-" stands for standard input and output in [ImportJSON]
// and [ExportJSON].
package io
