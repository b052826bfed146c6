//go:build !markupdebug

package syntax

const debugChecks = false
