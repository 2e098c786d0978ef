// Package field declares configuration fields and normalizes them into
// immutable specs.
//
// A field is registered with Declare and optional Hint, Default and Explicit
// options. Resolve classifies each declaration in order:
//
//   - an Explicit variable is used verbatim;
//   - a hint and a default are both kept, the hint drives casting;
//   - a default alone implies its own runtime type;
//   - a hint alone makes a required field of that type;
//   - a bare name is a required string.
//
// Custom types are environment-constructible when their pointer implements
// Unmarshaler (raw value plus extra constructor arguments) or
// encoding.TextUnmarshaler (raw value only), or when built with Constructed.
package field
