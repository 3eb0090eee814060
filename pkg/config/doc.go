// Package config loads the fragrules CLI configuration.
//
// Configuration comes from an optional YAML file, then environment variables
// named FRAGRULES_SECTION_FIELD, then command-line flags applied by the CLI.
//
//	compiler:
//	  compatibility_mode: false
//	  max_file_size: 10485760
//	chain_library:
//	  suffixes: [".xlsx", ".xls"]
//	catalog:
//	  path: data/fragrules.db
//	  retention_days: 90
//	  keep_revisions: 5
//	  prune_schedule: "0 3 * * *"
//	watch:
//	  debounce: 200ms
//	logging:
//	  level: info
//	  format: console
//	metrics:
//	  enabled: true
//	  listen_address: 127.0.0.1:9464
//	  namespace: fragrules
//	tracing:
//	  enabled: false
//	  endpoint: localhost:4317
//	  sampler: ratio
//	  sample_ratio: 0.1
//	git:
//	  repository: https://github.com/example/lipid-rules.git
//	  ref: main
//	  path: rules
//	  auth:
//	    type: token
//
// Every omitted field takes its default (see ApplyDefaults). Validate reports
// all problems at once as ValidationErrors.
package config
