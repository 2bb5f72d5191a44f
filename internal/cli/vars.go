// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

var (
	// create, query, analyze
	inputFile string
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// create, download
	outFile string
	// create
	probability uint64
	// create
	indexGranularity uint64
	// create
	plain bool
	// query, analyze
	interactive bool
	// query
	hashed bool
	// analyze
	jsonOutput bool
	// download, analyze
	threads int
	// download
	ranges int
	// create, download
	overwrite bool
	// create, download
	skipWait bool
)
