// langaudit audits translated MathCAT rule files against the English
// reference rules.
//
// It reports rules missing from a translation, rules that only exist in
// the translation, text that was never translated, and structural
// differences between matching rules.
//
// Usage:
//
//	# Audit German against English
//	langaudit audit de
//
//	# Audit a region variant, one file, only missing and untranslated issues
//	langaudit audit zz-aa --file general.yaml --only missing,untranslated
//
//	# Machine-readable output
//	langaudit audit de --format jsonl --output de.jsonl
//
//	# List languages and region variants
//	langaudit languages
//
//	# Re-audit on every saved change
//	langaudit watch de
//
//	# Show recorded runs
//	langaudit history
package main

func main() {
	Execute()
}
