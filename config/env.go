/*
DESCRIPTION
  env.go reads the environment variables the core recognizes at Config
  creation and never re-reads afterward (spec §6): OCIO_DISABLE_ALL_CACHES,
  OCIO_DISABLE_PROCESSOR_CACHES, and OCIO (consulted only by cmd/ocioapply,
  the external-CLI analogue).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import "os"

// Environment is a one-shot snapshot of the recognized environment
// variables, taken at construction (spec §6: "not re-read after").
type Environment struct {
	DisableAllCaches      bool
	DisableProcessorCaches bool
	// OCIOConfigPath is the value of $OCIO, consumed only by the CLI
	// front end, never by the core library itself.
	OCIOConfigPath string
}

// NewEnvironment reads the recognized environment variables once and
// returns a snapshot, mirroring revid/config.go's one-shot config
// parsing style (teacher).
func NewEnvironment() Environment {
	return Environment{
		DisableAllCaches:       os.Getenv("OCIO_DISABLE_ALL_CACHES") == "1",
		DisableProcessorCaches: os.Getenv("OCIO_DISABLE_PROCESSOR_CACHES") == "1",
		OCIOConfigPath:         os.Getenv("OCIO"),
	}
}
