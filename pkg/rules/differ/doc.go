// Package differ compares a reference rule with its translation.
//
// Only the logic of a rule is compared. Translated text is expected to
// differ and is never reported. Four aspects are checked independently, so
// a pair of rules can yield several differences:
//
//   - match: the rule's match pattern (string or list of strings), with
//     whitespace normalized. Reported only when both sides have a pattern.
//   - condition: the set of if/else_if expressions anywhere in the rule.
//     Order is ignored; translators may legitimately reorder branches.
//   - variables: the set of variable names declared under any variables field.
//   - structure: the ordered list of control-flow fields (test, if, then,
//     else, ...). This is the only order-sensitive aspect.
//
// Locate maps a difference back to source lines on both sides. For
// structural differences where both token lists still have a token at the
// first point of disagreement, the lists are misaligned (for example an
// extra test block shifts everything after it) and any line would mislead,
// so Locate reports the difference as not locatable and callers drop it.
package differ
