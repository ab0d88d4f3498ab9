// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package config

// This file hosts non-user-configurable parameters --- these are for development and testing purposes only.

// WidenVisitLimit is the number of times the fixed-point iteration may re-enter
// a block before widening kicks in at its incoming edges: from then on any
// location whose incoming value disagrees with the stored one is promoted to
// unknown instead of joined. Setting this higher buys precision inside loops at
// the cost of more iterations; termination is guaranteed for any value >= 1
// because widening is monotone and the value domain is finite.
const WidenVisitLimit = 3

// MaxTypeNestingDepth bounds the structural recursion of the signature
// builder. Template instantiations nested deeper than this (which in practice
// only arise from pathological self-referential patterns) are rejected with an
// error rather than overflowing the stack.
const MaxTypeNestingDepth = 64

// MaxBlockVisitBudget is a hard cap on total block visits per function. The
// widening bound makes this unreachable for well-formed graphs; hitting it
// means the front end handed us a malformed one.
const MaxBlockVisitBudget = 1 << 16
