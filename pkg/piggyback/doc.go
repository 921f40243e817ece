// Package piggyback assembles monitoring report text in the Checkmk
// agent format. A Group holds one Element per piggyback target (a
// node), an Element holds named Sections, and a Section holds the JSON
// payload emitted under a `<<<name:sep(0)>>>` header.
//
// Rendering is deterministic: elements and sections appear in the
// order they were first created, section entries in the order their
// keys were first inserted, and nested objects with sorted keys.
// Non-finite numbers are emitted as the JSON extensions Infinity,
// -Infinity and NaN, matching what downstream checks parse.
package piggyback
