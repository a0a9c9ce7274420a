// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrUpstreamUnavailable marks a failure to reach the literature search
// service or the generative text service: transport error, timeout, or a
// non-success HTTP status. Callers test for it with errors.Is.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrParseFailure marks a malformed response document from the search service.
var ErrParseFailure = errors.New("malformed response")
