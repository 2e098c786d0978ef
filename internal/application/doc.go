// Package application provides application initialization and dependency wiring.
// It encapsulates loading the schema, layering env files under the process
// environment, binding, and rendering the result, keeping the main package
// focused on CLI parsing and orchestration.
package application
