// Package services implements clients for the remote music discovery API.
//
// [Service] is the contract the swipe engine consumes: discover candidate
// tracks, submit per-swipe feedback, push preference updates, and fetch remote
// settings. [DiscoveryService] is the OAuth2-authenticated HTTP implementation
// with client-side rate limiting; [APIService] is a raw request client backing
// the debug CLI commands.
//
// Every operation is treated as fallible and transient: call sites log
// failures and degrade gracefully rather than aborting the interaction loop.
package services
