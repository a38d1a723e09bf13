// Package config loads apina's server configuration and resource type
// seed files.
//
// Configuration is resolved in increasing order of priority:
//
//  1. Defaults (Default)
//  2. A YAML or JSON file, chosen by extension (LoadFromFile)
//  3. APINA_* environment variables (ApplyEnv)
//  4. Command-line flags, applied by the CLI
//
// A schema file maps resource type names to attribute definitions, in the
// same shape accepted by PUT /resource/<type>:
//
//	gallery:
//	  folder: {source: "meta:folder", type: string, required: true, key: true}
//	  title:  {source: "meta:title", type: string}
//
// Key order is preserved so attributes keep their declared order.
package config
