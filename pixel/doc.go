// Package pixel converts pixel buffers between packed and byte encodings
// with differing channel orders, alpha representations and byte orders.
//
// Besides the correct conversion path, Convert can reproduce the defects
// that come from handing memory in one encoding to a consumer expecting
// another: unconverted alpha (WrongAlpha), a pad byte read as alpha
// (Blank) and a reinterpreted channel order (WrongColors). Classify
// predicts which of those a conversion produces.
//
// Conversions are synchronous and keep no state between calls. Callers
// reusing a destination buffer must keep readers away from it while
// Convert runs.
package pixel
