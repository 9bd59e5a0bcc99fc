// Package config handles gateway configuration loading from YAML files:
// server listen options, registered clients, token signing parameters,
// rate limits, the distributed artifact, and the blob-store collaborator.
package config
