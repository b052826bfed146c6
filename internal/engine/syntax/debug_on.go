//go:build markupdebug

package syntax

// debugChecks enables the recursive length validator on Freeze.
const debugChecks = true
