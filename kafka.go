/*
Package kafka is a low level client for inspecting Kafka clusters. It speaks
the broker wire protocol directly over raw sockets, no vendor SDK. A single
persistent TCP (optionally TLS) connection carries many concurrent logical
requests, multiplexed by correlation id.

Project Scope

The library implements the baseline request and response versions only; there
is no version negotiation. Consumption is a single-client, offset-tracked
poller, not a member of a broker-managed group. Production is non
transactional, acks=1, no retries.

Get Started

Read the documentation for the "client" package.

Design Decisions

1. One connection, many requests. The Kafka wire protocol is asynchronous: on
a single connection there can be multiple requests awaiting response from the
broker. The client leans on that: all API calls, the background poll loop
included, share one connection, paired to their responses by correlation id.

2. Wide use of reflection. API requests and responses are defined as structs
and marshaled using reflection (see the wire package). This is not a
performance problem, because API calls are not frequent. Marshaling and
unmarshaling of messages within message sets (which has big performance
impact) is done inline.

3. Limited use of data hiding. The library is not intended to be child proof.
Most internal structures are exposed to make debugging and metrics collection
easier.
*/
package kafka

import "time"

// DialTimeout bounds connection establishment, TLS handshake included.
var DialTimeout = 5 * time.Second

// PollInterval is how long the poll loop sleeps between cycles.
var PollInterval = 500 * time.Millisecond
