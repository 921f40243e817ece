// Package quantity parses the resource quantity strings reported by the
// Kubernetes API, such as CPU core fractions ("500m") and memory sizes
// ("2Gi"), into plain float64 values suitable for aggregation.
package quantity
