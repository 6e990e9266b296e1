// Package errors describes problems found while reading rule files.
//
// An Error carries the file location, a few numbered source lines around
// it, and an optional hint. Syntax and IO errors abort parsing of a file;
// structural errors such as duplicate keys are collected as warnings on
// the parsed document.
//
//	err := &errors.Error{
//	    Type:     errors.ErrorTypeSyntax,
//	    Message:  "found character that cannot start any token",
//	    Location: ast.Location{File: path, Line: errors.LineFromYAMLError(yamlErr)},
//	}
//	err = errors.WithSourceContext(err, source, 2)
//
// SuggestName backs the "did you mean" hints for language codes, report
// formats, and issue categories.
package errors
