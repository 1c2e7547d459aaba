// Package harness runs declaration-synthesis scenarios described in YAML.
//
// # Scenario Format
//
//	name: pointer_to_function
//	description: "A typedef of a function pointer keeps the parentheses"
//	ir_file: fixtures/fnptr.xml      # or inline with ir: |
//	typenames:                       # optional overrides
//	  unsigned_int: "unsigned int"
//	expect:
//	  - type: contains
//	    text: "typedef int (*handler)(int);"
//	  - type: decl_count
//	    count: 1
//	golden: true
//
// A scenario may instead expect the translation to fail:
//
//	expect_error: MALFORMED_INPUT
//
// # Assertion Types
//
//   - contains: the output contains text
//   - not_contains: the output does not contain text
//   - equals: the output equals text exactly
//   - decl_count: exactly count declarations were emitted
//   - incomplete_count: exactly count distinct identifiers rendered as incomplete
//
// # Determinism
//
// Scenarios run with the default configuration plus the scenario's overrides.
// Output depends only on the document and the configuration, so golden files
// compare byte for byte.
package harness
