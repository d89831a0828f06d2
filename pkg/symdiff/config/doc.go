/*
Package config loads run settings for symdiff from YAML or JSON.

# Overview

Settings collects everything a derivation run needs besides the input
expression: the variable, how many derivatives to take, simplification
limits, cache and store configuration, and logging. Default returns a ready
to use value; files only need to name the fields they change.

# File Loading

Load settings from a file, with the format picked by extension:

	s, err := config.FromFile("symdiff.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	if err := s.Validate(); err != nil {
	    log.Fatal(err)
	}

Or from bytes:

	s, err = config.FromYAML(yamlBytes)
	s, err = config.FromJSON(jsonBytes)

Unknown keys are rejected so typos surface instead of silently falling back
to defaults.

# Example

	variable: x
	order: 2
	tolerance: 1e-9
	max_nodes: 100000
	store_path: derivations.db
	log_level: debug
	log_format: json
	output: latex
*/
package config
