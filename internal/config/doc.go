// Package config provides configuration structures and utilities for
// aopsharvest: harvest defaults, validation, the optional .aopsharvest
// YAML file and XDG directory locations.
package config
