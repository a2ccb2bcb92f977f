// Package redis wraps the go-redis client with the hooks the application
// installs on every connection: operation metrics and a circuit breaker that
// serves neutral mood values while Redis is down.
package redis
