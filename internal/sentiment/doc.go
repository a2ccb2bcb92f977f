// Package sentiment converts voice transcripts into bounded sentiment scores
// and betting triggers, and tracks the session's rolling "market mood" window.
package sentiment
