// Package errors carries the structured error type shared across the
// agent.
//
// A StructuredError pairs a stable ErrorCode with a message and an
// optional cause and context. The aggregation layers raise the domain
// codes (MALFORMED_QUANTITY, EMPTY_AGGREGATION, DUPLICATE_KEY,
// IDENTITY_MISMATCH); failures of the cluster collaborators carry
// NOT_FOUND, UNAVAILABLE, INVALID_REQUEST, TIMEOUT, or INTERNAL.
// Callers branch on the code, not the message text:
//
//	view, err := node.Resources()
//	if errors.IsCode(err, errors.ErrCodeMalformedQuantity) {
//	    // the node reported a quantity the parser rejects
//	}
//
// Classification happens where the failure is understood; everything
// in between wraps with plain fmt.Errorf("...: %w", err) and the code
// survives the chain.
package errors
