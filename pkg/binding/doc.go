// Package binding resolves declared fields against an environment snapshot.
//
//	cfg, err := binding.Load([]field.Declaration{
//		field.Declare("DATABASE_URL"),
//		field.Declare("PORT", field.Default(8080)),
//		field.Declare("DEBUG", field.Hint(field.Bool)),
//	}, binding.WithValidation(true), binding.WithPrefixes("APP_"))
//
// Present variables are cast to the field type (strings unchanged, numbers
// via strconv, booleans from true/1/yes/on and false/0/no/off, custom types
// through their constructor). Absent variables take the default as is.
// Binding happens once; later changes to the environment are not observed.
package binding
