// Package profile is a small people directory served over HTTP with typed
// query binding.
//
// The directory is loaded from a YAML fixture (an embedded one by default)
// and can be reloaded from disk with Watch. Two CORS-wrapped route groups are
// exposed:
//
//	GET /profile/{name}                              lookup by first or last name
//	GET /profile?page=2&sort_by=email&order_by=desc  paged listing, 10 per page
//
// The single lookup always binds strictly, so any extra query parameter is
// rejected. The listing uses the service mode: in strict mode parameters must
// follow the declared order (page, sort_by, order_by), with empty values
// standing in for omitted ones. sort_by and order_by must be given together.
package profile
