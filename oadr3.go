// Package oadr3 provides a client for the OpenADR 3 REST API exposed by a VTN.
//
// Features:
// - OAuth2 client-credentials authentication with a cached, single-flight refreshed token.
// - A generic request dispatcher returning [Response] envelopes for every call.
// - Typed helpers for programs, events, reports, VENs, VEN resources and subscriptions,
//   plus iterator-based traversal of paginated searches.
package oadr3
