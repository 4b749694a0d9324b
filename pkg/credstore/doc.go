// Package credstore persists authentication artifacts (token, user profile,
// privileges, roles, login preferences) under an application-code key
// namespace.
//
// A Store writes through two pluggable backends: a durable key-value backend
// for profile data and credentials, and an expiring backend for the access
// token (the token must age out on its own even if the host never runs
// cleanup). MemoryBackend and RedisBackend implementations are provided;
// hosts with platform storage (keychain, browser bridge, mobile secure
// storage) implement Backend themselves.
//
// All keys are namespaced "<appCode>.<field>" so co-hosted applications
// sharing one storage origin cannot collide. Construction fails without an
// application code for exactly that reason.
package credstore
