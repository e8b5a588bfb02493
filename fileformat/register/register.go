/*
DESCRIPTION
  register.go exists purely for its import side effects: each
  subpackage's init() registers it with fileformat.Register (spec
  §4.C/§9 "format registry... populated by explicit registration").
  Anything that resolves a FileTransform by extension (the pipeline
  builder, cmd/ocioapply, cmd/lutplot, tests) blank-imports this package
  once to make every known adapter available, instead of each caller
  enumerating the adapter list itself.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package register blank-imports every fileformat adapter subpackage so
// that importing register is enough to populate the fileformat
// registry (spec §4.C).
package register

import (
	_ "github.com/ausocean/colorcore/fileformat/ccc"
	_ "github.com/ausocean/colorcore/fileformat/cube"
	_ "github.com/ausocean/colorcore/fileformat/ctf"
	_ "github.com/ausocean/colorcore/fileformat/icc"
	_ "github.com/ausocean/colorcore/fileformat/itx"
	_ "github.com/ausocean/colorcore/fileformat/pandora"
	_ "github.com/ausocean/colorcore/fileformat/spi"
	_ "github.com/ausocean/colorcore/fileformat/threedl"
	_ "github.com/ausocean/colorcore/fileformat/truelight"
	_ "github.com/ausocean/colorcore/fileformat/vf"
)
