// Package internalcheck holds source-level policy tests for the dhlab packages.
//
// The arithmetic core must stay on fixed-width integers, so arith, prime,
// codec and exchange may not import math/big or the standard crypto packages,
// and secret exponents never reach the log.
package internalcheck
