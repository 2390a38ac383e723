// Package preflight provides readiness checks for the external tools and
// directories mediakit depends on.
//
// The doctor command runs RunAll and renders every result; mutating commands
// call Require to fail fast when a tool they need is missing. The geocoder is
// deliberately not probed: the public Nominatim instance is rate limited.
package preflight
