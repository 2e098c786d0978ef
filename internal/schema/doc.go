// Package schema reads field declarations from a YAML file for the envbind
// CLI. Typed defaults are parsed when the file is loaded, so the declarations
// it produces carry defaults of their final type.
package schema
