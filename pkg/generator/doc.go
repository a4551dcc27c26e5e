// Package generator builds random depth-layered graphs.
//
// # Overview
//
// [Generate] runs in two phases over a shared [graph.Store]:
//
//  1. Tree phase. A [Pool] of workers runs one job per attempted child of
//     the root. Each job grows its whole sub-tree depth-first: at depth d a
//     vertex makes NewVerticesNum attempts, each accepted with probability
//     1 - d/MaxDepth, and recurses into every accepted child. No vertex is
//     created below MaxDepth.
//  2. Color phase. Once every worker has exited, four passes run
//     concurrently, one per edge family:
//
//     - Green: a self-loop on each vertex with probability 0.1
//     - Blue: consecutive vertices of a level, probability 0.25
//     - Yellow: a random unconnected vertex one level down, with a
//     probability growing linearly with depth
//     - Red: a random vertex two levels down, probability 0.33
//
// The probabilities are configurable through [Probabilities].
//
// # Randomness
//
// Every tree job and every color pass draws from its own PCG stream derived
// from Params.Seed, so no random state is shared between goroutines. With a
// fixed seed the shape of the Gray tree does not depend on the worker count,
// although vertex IDs interleave differently.
//
// # Errors
//
// Invalid parameters fail with an INVALID_PARAMS error. A store rejecting an
// insert during generation means the generator itself is broken and panics.
// Reaching less than MaxDepth is reported by [Result.Warning], not as an
// error.
package generator
