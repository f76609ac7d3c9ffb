// Package roster loads the member list and resolves printed names to ids.
//
// Amendment documents print signatories by full name and roll-call results
// print members by family name. Both lookups are keyed on a normalized form
// of the name: title case for full names and capitalized family names.
package roster
