// Package throttle paces outbound requests.
//
// The Governor composes two independent constraints: a fixed inter-request
// delay and a continuously refilling token bucket. Each fetch blocks on
// whichever constraint demands the longer wait.
package throttle
