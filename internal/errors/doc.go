// Package errors provides coded, actionable errors for the popover command
// line and its configuration loader.
//
// Library packages return plain sentinel errors. The command layer turns
// them into coded errors that carry a hint and, for configuration files,
// the offending line:
//
//	err := errors.New("E103").
//	    WithLocation("popover.yaml", 4, 12).
//	    WithSuggestion("Indent nested keys with spaces, not tabs")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E103: Invalid YAML in config file
//	//
//	//   popover.yaml:4:12
//	//
//	//   Hint: Indent nested keys with spaces, not tabs
//
// # Error Codes
//
//   - E100-E139: configuration
//   - E140-E159: command line
//   - E160-E179: live protocol
package errors
