// Package entity wraps the Kubernetes API objects a cluster report is
// built from. Each wrapper extracts the fields the report needs at
// construction time, and each list type knows how to render its
// section payloads and aggregate across its members.
package entity
