// Command lipidid identifies lipidomics features against a reference
// database, calibrates retention times, and exposes the CCS/RT property
// models from the command line.
package main
