// Package field locates and rewrites length-prefixed string fields inside
// rtorrent session records.
//
// A field has the shape `:<key><N>:<value>` where N is the decimal byte length
// of value. Scan walks a record with a small explicit grammar (colon, key
// literal, digits, colon, exactly N bytes) instead of a pattern engine, so
// values containing colons are delimited correctly. Rewrite substitutes the
// first occurrence of a search string inside every matching value and
// re-encodes each field with its new length in a single pass over the
// original offsets.
//
// The package is pure: it never touches the filesystem and never logs. File
// access and reporting belong to the relocate and sessionfile packages.
package field
