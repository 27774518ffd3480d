// Package provider defines remote translation backends.
package provider

import "github.com/ZaguanLabs/treelate"

// Provider is the interface for remote translation backends.
// This is an alias to the main package interface for convenience.
type Provider = treelate.Provider
