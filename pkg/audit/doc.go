// Package audit compares translated rule documents with their reference
// and turns the result into flat issue records.
//
// The pieces compose as follows:
//
//	Comparator     parse both sides (plus an optional region overlay) and
//	               compare them key by key: ComparisonResult
//	CollectIssues  project a ComparisonResult into []Issue, one record per
//	               missing rule, extra rule, untranslated string and
//	               locatable difference
//	Runner         audit every file of a language with a bounded worker
//	               pool and stream FileReports, in file order, to a Sink
//
// Comparison is by rule key only. Rules present on both sides are checked
// for untranslated text and logical differences; translated wording is
// never compared.
package audit
