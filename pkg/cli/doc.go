// Package cli implements the depscope command line interface.
//
// Commands dispatch through a flag.FlagSet-based subcommand table.
// Store-backed commands load configuration from the environment, open
// the graph connection, run, and close it on every exit path. Commands
// return an error on failure; main translates that into exit code 1.
package cli
