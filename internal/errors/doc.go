// Package errors provides structured, actionable error messages for stocknav.
//
// Every error reported to an operator carries:
//   - A stable code (e.g. "E201") that scripts and docs can key on
//   - A short message and a longer plain-language explanation
//   - The offending file location when the error came from a config or
//     route declaration file
//   - A hint on how to fix it
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: configuration file and environment problems (E1xx)
//   - route: route table declaration problems (E2xx)
//   - navigation: location parsing and history problems (E3xx)
//   - server: HTTP and live session problems (E4xx)
//   - publish: manifest publishing problems (E5xx)
//   - cli: command-line usage problems
//
// # Usage
//
//	err := errors.New("E102").
//	    WithLocation("stocknav.toml", 4, 9).
//	    WithSuggestion(`history_mode must be "hash" or "path"`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E102: Configuration file is not valid TOML
//	//
//	//   stocknav.toml:4:9
//	//
//	//      2 │
//	//      3 │ [router]
//	//   →  4 │ history_mode = hash
//	//        │         ^
//	//      5 │ base_path = "/"
//	//
//	//   Hint: history_mode must be "hash" or "path"
//
// Route table validation failures are converted with FromValidation, which
// produces one coded error per problem found.
package errors
