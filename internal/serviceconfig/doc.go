// Package serviceconfig reads the symbolserver's own YAML configuration
// file, as far as the entrypoint needs it: resolving the symbol data
// directory that must be created and chowned before the privilege drop.
//
// The resolution order mirrors how the service itself locates the
// directory: the SYMBOLSERVER_SYMBOL_DIR environment variable wins,
// then the symbol_dir key of the config file named by
// SYMBOLSERVER_CONFIG, then a compiled-in default.
package serviceconfig
