// Package core holds the fintrack domain: entities, the optional-field
// patches used for partial updates, input validation and the error kinds
// shared by storage, services and transport.
package core
