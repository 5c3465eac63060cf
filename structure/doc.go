// Package structure turns a tournament format, a team count and a few
// operator-chosen parameters into a validated structural plan: how teams are
// split into groups, how many qualify, how many wildcard slots fill the
// power-of-two playoffs bracket, and which match modes each stage uses.
//
// Everything here is a pure function of its input. Validation never stops at
// the first problem; it returns every field error at once so a form can show
// them together. Merge and Extract move a plan in and out of the tournament's
// configuration record without touching sections owned by other subsystems.
package structure
